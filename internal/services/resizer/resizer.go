// Package resizer runs the single configured resize: check that the source
// exists, stretch it to the target size and report the outcome on one line.
package resizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/phambaophuc/rich-menu-resizer/internal/config"
	"github.com/phambaophuc/rich-menu-resizer/internal/models"
	"github.com/phambaophuc/rich-menu-resizer/internal/services/processor"
	"go.uber.org/zap"
)

const (
	MsgSourceNotFound = "Input image not found."
	MsgResizedFormat  = "Image resized and saved to %s"
)

// ErrPathOutsideRoot is returned for job paths that leave the image directory.
var ErrPathOutsideRoot = errors.New("path is outside the image directory")

// ResultPublisher is notified after a destination file has been written.
type ResultPublisher interface {
	Publish(ctx context.Context, result *models.ResizeResult) error
}

type Resizer struct {
	cfg        config.ResizeConfig
	processor  *processor.ImageProcessor
	out        io.Writer
	logger     *zap.Logger
	publishers []ResultPublisher

	mu sync.Mutex
}

func NewResizer(
	cfg config.ResizeConfig,
	processor *processor.ImageProcessor,
	out io.Writer,
	logger *zap.Logger,
	publishers ...ResultPublisher,
) *Resizer {
	return &Resizer{
		cfg:        cfg,
		processor:  processor,
		out:        out,
		logger:     logger,
		publishers: publishers,
	}
}

func (r *Resizer) Config() config.ResizeConfig {
	return r.cfg
}

// ReadDestination returns the bytes of the configured destination, waiting
// for a resize in progress to finish first.
func (r *Resizer) ReadDestination() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return os.ReadFile(r.cfg.DestinationPath)
}

// Run performs the configured resize. A missing source is not an error: the
// not-found line is printed and a result with status source_missing is
// returned. Decode and encode failures are returned with the stack of the
// failing run attached and nothing is printed.
func (r *Resizer) Run(ctx context.Context) (*models.ResizeResult, error) {
	return r.run(ctx, r.cfg)
}

// RunJob resizes the pair named by job, falling back to the configured size
// when the job carries none.
func (r *Resizer) RunJob(ctx context.Context, job *models.ResizeJob) (*models.ResizeResult, error) {
	cfg := config.ResizeConfig{
		SourcePath:      job.SourcePath,
		DestinationPath: job.DestinationPath,
		TargetWidth:     job.Size.Width,
		TargetHeight:    job.Size.Height,
	}
	if cfg.TargetWidth <= 0 || cfg.TargetHeight <= 0 {
		cfg.TargetWidth, cfg.TargetHeight = r.cfg.TargetWidth, r.cfg.TargetHeight
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job %s: %w", job.ID, err)
	}
	if err := CheckJobPaths(filepath.Dir(r.cfg.DestinationPath), cfg.SourcePath, cfg.DestinationPath); err != nil {
		return nil, fmt.Errorf("invalid job %s: %w", job.ID, err)
	}
	return r.run(ctx, cfg)
}

func (r *Resizer) run(ctx context.Context, cfg config.ResizeConfig) (*models.ResizeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !exists(cfg.SourcePath) {
		r.logger.Info("Source image not found", zap.String("source", cfg.SourcePath))
		fmt.Fprintln(r.out, MsgSourceNotFound)
		return &models.ResizeResult{
			Status:          models.ResultSourceMissing,
			SourcePath:      cfg.SourcePath,
			DestinationPath: cfg.DestinationPath,
			ProcessedAt:     time.Now(),
		}, nil
	}

	result, err := r.processor.Process(cfg.SourcePath, cfg.DestinationPath, cfg.TargetWidth, cfg.TargetHeight)
	if err != nil {
		return nil, goerrors.Wrap(err, 0)
	}

	r.logger.Info("Image resized",
		zap.String("source", result.SourcePath),
		zap.String("destination", result.DestinationPath),
		zap.Int("source_width", result.SourceSize.Width),
		zap.Int("source_height", result.SourceSize.Height),
		zap.Int64("file_size", result.FileSize))
	fmt.Fprintf(r.out, MsgResizedFormat+"\n", cfg.DestinationPath)

	r.publish(ctx, result)
	return result, nil
}

func (r *Resizer) publish(ctx context.Context, result *models.ResizeResult) {
	for _, p := range r.publishers {
		if err := p.Publish(ctx, result); err != nil {
			r.logger.Warn("Failed to publish resize result",
				zap.String("result_id", result.ID),
				zap.Error(err))
		}
	}
}

// CheckJobPaths fails unless every path resolves to a location inside root.
func CheckJobPaths(root string, paths ...string) error {
	base, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve image directory: %w", err)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		rel, err := filepath.Rel(base, abs)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("%s: %w", p, ErrPathOutsideRoot)
		}
	}
	return nil
}

// exists mirrors a plain existence probe: any stat failure counts as absent.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
