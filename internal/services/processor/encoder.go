package processor

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

// Save writes img to path, picking the encoder from the file extension.
// An existing file at path is overwritten.
func (p *ImageProcessor) Save(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(DefaultQuality)); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// Encode writes img to w in the named format ("png", "jpg", "jpeg", ...).
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return fmt.Errorf("unsupported output format %q: %w", format, err)
	}

	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// Transcode decodes data and re-encodes it in format.
func Transcode(data []byte, format string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, format, DefaultQuality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatOf returns the lower-case format name implied by path's extension,
// or "" when imaging has no encoder for it.
func FormatOf(path string) string {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return ""
	}
	return strings.ToLower(f.String())
}
