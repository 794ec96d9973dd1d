package processor

import (
	"image"

	"github.com/disintegration/imaging"
)

// Resize stretches img to exactly width x height with Lanczos resampling.
// The aspect ratio of the source is not preserved.
func (p *ImageProcessor) Resize(img image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}
