package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phambaophuc/rich-menu-resizer/internal/models"
	"github.com/phambaophuc/rich-menu-resizer/pkg/utils"
	"go.uber.org/zap"
)

// Publish mirrors the destination file to Supabase and records the result in
// Redis. Backends that are not configured are skipped; a failure in one does
// not stop the other.
func (s *StorageService) Publish(ctx context.Context, result *models.ResizeResult) error {
	var uploadErr, cacheErr error

	if s.sbClient != nil {
		uploadErr = s.uploadResult(ctx, result)
	}

	if s.redisClient != nil {
		cacheErr = s.SetLastResult(ctx, result)
	}

	return errors.Join(uploadErr, cacheErr)
}

func (s *StorageService) uploadResult(ctx context.Context, result *models.ResizeResult) error {
	data, err := os.ReadFile(result.DestinationPath)
	if err != nil {
		return fmt.Errorf("failed to read resized image: %w", err)
	}

	url, err := s.Upload(ctx, bytes.NewBuffer(data), filepath.Base(result.DestinationPath))
	if err != nil {
		return err
	}
	result.URL = url
	s.logger.Info("Resized image uploaded", zap.String("url", url))
	return nil
}

// Upload uploads file to Supabase Storage
func (s *StorageService) Upload(ctx context.Context, buffer *bytes.Buffer, filename string) (string, error) {
	if s.sbClient == nil {
		return "", ErrNotConfigured
	}

	key := utils.GenerateStorageKey(filename)

	_, err := s.sbClient.UploadFile(s.bucket, key, bytes.NewReader(buffer.Bytes()))
	if err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := s.sbClient.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}
