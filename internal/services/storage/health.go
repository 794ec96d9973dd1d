package storage

import (
	"context"

	"github.com/phambaophuc/rich-menu-resizer/internal/models"
	storage_go "github.com/supabase-community/storage-go"
)

// HealthCheck checks Redis + Supabase
func (s *StorageService) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{
		"redis":    models.NotConfigured,
		"supabase": models.NotConfigured,
	}

	if s.redisClient != nil {
		if err := s.redisClient.Ping(ctx).Err(); err != nil {
			status["redis"] = models.Unhealthy + ": " + err.Error()
		} else {
			status["redis"] = models.Healthy
		}
	}

	if s.sbClient != nil {
		if _, err := s.sbClient.ListFiles(s.bucket, "", storage_go.FileSearchOptions{}); err != nil {
			status["supabase"] = models.Unhealthy + ": " + err.Error()
		} else {
			status["supabase"] = models.Healthy
		}
	}

	return status
}
