package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phambaophuc/rich-menu-resizer/internal/models"
)

var workerID int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume resize jobs from RabbitMQ",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.queue == nil {
			return errors.New("worker needs a reachable RABBITMQ_URL")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return a.queue.StartWorker(ctx, workerID, a.resizer)
	},
}

var publishJobCmd = &cobra.Command{
	Use:   "publish-job",
	Short: "Enqueue the configured source/destination pair as a resize job",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if a.queue == nil {
			return errors.New("publish-job needs a reachable RABBITMQ_URL")
		}

		job := &models.ResizeJob{
			SourcePath:      cfg.Resize.SourcePath,
			DestinationPath: cfg.Resize.DestinationPath,
			Size: models.ResizeSize{
				Width:  cfg.Resize.TargetWidth,
				Height: cfg.Resize.TargetHeight,
			},
		}
		if err := a.queue.PublishJob(cmd.Context(), job); err != nil {
			return err
		}

		logger.Info("Resize job enqueued", zap.String("job_id", job.ID))
		return nil
	},
}

func init() {
	workerCmd.Flags().IntVar(&workerID, "id", 1, "worker id used as the consumer tag")
}
