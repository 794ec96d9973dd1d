package storage

import (
	"errors"
	"time"

	"github.com/phambaophuc/rich-menu-resizer/internal/config"
	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("storage backend not configured")

// StorageService mirrors resized files to Supabase Storage and keeps the
// latest result in Redis. Either backend may be absent.
type StorageService struct {
	sbClient      *storage_go.Client
	redisClient   *redis.Client
	bucket        string
	cacheDuration time.Duration
	logger        *zap.Logger
}

func NewStorageService(cfg *config.Config, logger *zap.Logger) (*StorageService, error) {
	s := &StorageService{
		bucket:        cfg.Supabase.BUCKET,
		cacheDuration: cfg.Cache.Duration,
		logger:        logger,
	}

	if cfg.Supabase.URL != "" {
		if cfg.Supabase.BUCKET == "" {
			return nil, errors.New("SUPABASE_BUCKET is required when SUPABASE_URL is set")
		}
		s.sbClient = storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.KEY, nil)
	}

	if cfg.Redis.Addr != "" {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	return s, nil
}

func (s *StorageService) Close() error {
	if s.redisClient != nil {
		return s.redisClient.Close()
	}
	return nil
}
