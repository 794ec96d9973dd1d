package queue

import (
	"fmt"

	"github.com/phambaophuc/rich-menu-resizer/internal/models"
)

func (q *QueueService) GetQueueStats() (map[string]interface{}, error) {
	queueInfo, err := q.channel.QueueInspect(q.queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect queue: %w", err)
	}

	return map[string]interface{}{
		"messages":  queueInfo.Messages,
		"consumers": queueInfo.Consumers,
		"name":      queueInfo.Name,
	}, nil
}

// HealthCheck checks if RabbitMQ is available. A nil service reports
// "not configured".
func (q *QueueService) HealthCheck() string {
	if q == nil {
		return models.NotConfigured
	}

	if q.conn == nil || q.conn.IsClosed() {
		return models.Unhealthy + ": connection closed"
	}

	if q.channel == nil {
		return models.Unhealthy + ": channel not available"
	}

	return models.Healthy
}
