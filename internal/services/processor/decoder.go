package processor

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	// imaging registers jpeg, png, gif, bmp and tiff; webp needs x/image.
	_ "golang.org/x/image/webp"
)

// Open decodes the image at path. The returned Closer releases the source
// handle and must be closed by the caller once the image is no longer needed.
func (p *ImageProcessor) Open(path string) (image.Image, io.Closer, error) {
	rc, err := p.openSource(path)
	if err != nil {
		return nil, nil, err
	}

	img, err := imaging.Decode(rc)
	if err != nil {
		rc.Close()
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, rc, nil
}
