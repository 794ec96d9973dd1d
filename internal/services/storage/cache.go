package storage

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/phambaophuc/rich-menu-resizer/internal/config"
	"github.com/phambaophuc/rich-menu-resizer/internal/models"
	"github.com/redis/go-redis/v9"
)

const CacheKeyPrefix = "resize_result:"

// GenerateCacheKey identifies one source/destination/size combination.
func GenerateCacheKey(cfg config.ResizeConfig) string {
	hash := md5.New()
	hash.Write([]byte(cfg.SourcePath))
	hash.Write([]byte(fmt.Sprintf("resize_%d_%d", cfg.TargetWidth, cfg.TargetHeight)))
	hash.Write([]byte(cfg.DestinationPath))
	return fmt.Sprintf("%s%x", CacheKeyPrefix, hash.Sum(nil))
}

func (s *StorageService) SetLastResult(ctx context.Context, result *models.ResizeResult) error {
	if s.redisClient == nil {
		return ErrNotConfigured
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	key := GenerateCacheKey(config.ResizeConfig{
		SourcePath:      result.SourcePath,
		DestinationPath: result.DestinationPath,
		TargetWidth:     result.Size.Width,
		TargetHeight:    result.Size.Height,
	})
	if err := s.redisClient.Set(ctx, key, data, s.cacheDuration).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// GetLastResult returns nil, nil on a cache miss.
func (s *StorageService) GetLastResult(ctx context.Context, cfg config.ResizeConfig) (*models.ResizeResult, error) {
	if s.redisClient == nil {
		return nil, ErrNotConfigured
	}

	data, err := s.redisClient.Get(ctx, GenerateCacheKey(cfg)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	var result models.ResizeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return &result, nil
}

// GetCacheStats reports the size of the Redis database and how many resize
// results it holds.
func (s *StorageService) GetCacheStats(ctx context.Context) (map[string]interface{}, error) {
	if s.redisClient == nil {
		return nil, ErrNotConfigured
	}

	pipeline := s.redisClient.Pipeline()
	dbSizeCmd := pipeline.DBSize(ctx)
	resultsCmd := pipeline.Keys(ctx, CacheKeyPrefix+"*")

	if _, err := pipeline.Exec(ctx); err != nil {
		return nil, fmt.Errorf("pipeline error: %w", err)
	}

	return map[string]interface{}{
		"db_keys":        dbSizeCmd.Val(),
		"cached_results": len(resultsCmd.Val()),
	}, nil
}
