package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/phambaophuc/rich-menu-resizer/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

type JobRunner interface {
	RunJob(ctx context.Context, job *models.ResizeJob) (*models.ResizeResult, error)
}

// StartWorker consumes jobs one at a time until ctx is done or the delivery
// channel closes.
func (q *QueueService) StartWorker(ctx context.Context, workerID int, runner JobRunner) error {
	if err := q.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	msgs, err := q.channel.Consume(
		q.queueName,                        // queue
		fmt.Sprintf("worker-%d", workerID), // consumer
		false,                              // auto-ack
		false,                              // exclusive
		false,                              // no-local
		false,                              // no-wait
		nil,                                // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.logger.Info("Worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-ctx.Done():
			q.logger.Info("Worker stopping", zap.Int("worker_id", workerID))
			return nil
		case msg, ok := <-msgs:
			if !ok {
				q.logger.Warn("Message channel closed", zap.Int("worker_id", workerID))
				return nil
			}

			q.handleDelivery(ctx, msg, workerID, runner)
		}
	}
}

func (q *QueueService) handleDelivery(ctx context.Context, msg amqp.Delivery, workerID int, runner JobRunner) *models.ResizeJob {
	var job models.ResizeJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		q.logger.Error("Failed to unmarshal job",
			zap.Error(err),
			zap.Int("worker_id", workerID))
		msg.Nack(false, false) // Don't requeue malformed messages
		return nil
	}

	q.logger.Info("Processing job",
		zap.String("job_id", job.ID),
		zap.Int("worker_id", workerID))

	job.Status = models.StatusProcessing

	result, err := runner.RunJob(ctx, &job)
	switch {
	case err != nil:
		job.Status = models.StatusFailed
		job.Error = err.Error()
		q.logger.Error("Job processing failed",
			zap.String("job_id", job.ID),
			zap.Error(err))
	case result.Status == models.ResultSourceMissing:
		job.Status = models.StatusFailed
		job.Result = result
		job.Error = "source image not found"
		q.logger.Warn("Job source missing",
			zap.String("job_id", job.ID),
			zap.String("source", job.SourcePath))
	default:
		job.Status = models.StatusCompleted
		job.Result = result
		q.logger.Info("Job completed successfully",
			zap.String("job_id", job.ID))
	}

	if err := q.publishJobFinished(&job); err != nil {
		q.logger.Warn("Failed to report job status",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}

	if err := msg.Ack(false); err != nil {
		q.logger.Error("Failed to ack message",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}

	return &job
}
