package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phambaophuc/rich-menu-resizer/internal/services/processor"
	"github.com/phambaophuc/rich-menu-resizer/internal/services/queue"
	"github.com/phambaophuc/rich-menu-resizer/internal/services/resizer"
	"github.com/phambaophuc/rich-menu-resizer/internal/services/storage"
)

type app struct {
	resizer *resizer.Resizer
	storage *storage.StorageService
	queue   *queue.QueueService
}

// newApp wires the resizer with whichever publishers are configured. A broker
// that cannot be reached is logged and skipped.
func newApp() (*app, error) {
	store, err := storage.NewStorageService(cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &app{storage: store}
	publishers := []resizer.ResultPublisher{store}

	if cfg.RabbitMQ.URL != "" {
		q, err := queue.NewQueueService(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger)
		if err != nil {
			logger.Warn("Failed to initialize queue service", zap.Error(err))
		} else {
			a.queue = q
			publishers = append(publishers, q)
		}
	}

	a.resizer = resizer.NewResizer(cfg.Resize, processor.NewImageProcessor(), os.Stdout, logger, publishers...)
	return a, nil
}

func (a *app) Close() {
	if a.queue != nil {
		a.queue.Close()
	}
	a.storage.Close()
}

func runOnce(cmd *cobra.Command) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = a.resizer.Run(cmd.Context())
	return err
}
