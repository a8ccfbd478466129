// Package ocr recognizes text in rendered page bitmaps. Engines are small
// and synchronous; callers that need throttling or a concurrency cap wrap
// them with Throttled. The cgo Tesseract engine lives in ocr/tesseract so
// that nothing but the binary links against libtesseract.
package ocr

import (
	"context"
	"image"
)

// Engine recognizes the text in one page bitmap. A failure affects only
// that page.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, img image.Image) (string, error)

func (f EngineFunc) Recognize(ctx context.Context, img image.Image) (string, error) {
	return f(ctx, img)
}
