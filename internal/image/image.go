package image

import (
	"bytes"
	"errors"
	"fmt"
	stdimage "image"
	"image/png"
)

var ErrEmptyImage = errors.New("empty page bitmap")

var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

// EncodePNG serializes a rendered page bitmap for the OCR engine. Pages at
// 300 DPI are large, so speed wins over size here: the bytes never hit disk.
func EncodePNG(img stdimage.Image) ([]byte, error) {
	if img == nil {
		return nil, ErrEmptyImage
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}

	var buf bytes.Buffer
	buf.Grow(b.Dx() * b.Dy() / 4)
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
