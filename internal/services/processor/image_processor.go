package processor

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/rich-menu-resizer/internal/models"
)

const DefaultQuality = 75

// Opener returns a readable handle for path. The processor closes it.
type Opener func(path string) (io.ReadCloser, error)

type Option func(*ImageProcessor)

// WithOpener replaces os.Open as the source of image bytes.
func WithOpener(open Opener) Option {
	return func(p *ImageProcessor) {
		p.open = open
	}
}

type ImageProcessor struct {
	open Opener
}

func NewImageProcessor(opts ...Option) *ImageProcessor {
	p := &ImageProcessor{
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process decodes src, stretches it to width x height and writes it to dst.
// The source handle stays open until the save has finished and is closed on
// every return path.
func (p *ImageProcessor) Process(src, dst string, width, height int) (*models.ResizeResult, error) {
	img, closer, err := p.Open(src)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	bounds := img.Bounds()
	resized := p.Resize(img, width, height)

	if err := p.Save(resized, dst); err != nil {
		return nil, err
	}

	result := &models.ResizeResult{
		ID:              uuid.New().String(),
		Status:          models.ResultResized,
		SourcePath:      src,
		DestinationPath: dst,
		SourceSize:      models.ResizeSize{Width: bounds.Dx(), Height: bounds.Dy()},
		Size:            models.ResizeSize{Width: resized.Bounds().Dx(), Height: resized.Bounds().Dy()},
		Format:          FormatOf(dst),
		ProcessedAt:     time.Now(),
	}

	if info, err := os.Stat(dst); err == nil {
		result.FileSize = info.Size()
	}

	return result, nil
}

func (p *ImageProcessor) openSource(path string) (io.ReadCloser, error) {
	rc, err := p.open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return rc, nil
}
