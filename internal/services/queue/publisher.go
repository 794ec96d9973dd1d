package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/rich-menu-resizer/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// PublishJob enqueues a resize for a worker. ID, status and creation time are
// filled in when empty.
func (q *QueueService) PublishJob(ctx context.Context, job *models.ResizeJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	job.Status = models.StatusPending

	if err := q.publishJSON(q.queueName, job); err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	q.logger.Info("Job published to queue", zap.String("job_id", job.ID))
	return nil
}

// Publish emits a resize.completed event for result.
func (q *QueueService) Publish(ctx context.Context, result *models.ResizeResult) error {
	event := models.ResizeCompleted{
		Event:  models.EventResizeCompleted,
		Result: result,
	}
	if err := q.publishJSON(q.eventQueue, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// publishJobFinished reports the final state of a job on the events queue.
func (q *QueueService) publishJobFinished(job *models.ResizeJob) error {
	event := models.ResizeJobFinished{
		Event: models.EventResizeJobFinished,
		Job:   job,
	}
	if err := q.publishJSON(q.eventQueue, event); err != nil {
		return fmt.Errorf("failed to publish job status: %w", err)
	}
	return nil
}

func (q *QueueService) publishJSON(routingKey string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.publisher.Publish(
		"",         // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}
