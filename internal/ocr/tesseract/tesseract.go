package tesseract

import (
	"context"
	"fmt"
	"image"
	"strconv"

	"github.com/otiai10/gosseract/v2"

	pageimage "github.com/toricodesthings/pdfconvert/internal/image"
	"github.com/toricodesthings/pdfconvert/internal/ocr"
)

var _ ocr.Engine = (*Engine)(nil)

// Engine is the default ocr.Engine, backed by libtesseract through gosseract.
// It lives in its own package so only the binary links the C libraries.
// A fresh client is used per page; clients are not safe for concurrent use
// and page bitmaps are large enough that setup cost is noise.
type Engine struct {
	Languages []string
	DPI       int
	// Variables are passed through to SetVariable (e.g. tessedit_pageseg_mode).
	Variables map[string]string

	clientFactory func() *gosseract.Client
}

func New(languages []string, dpi int) *Engine {
	return &Engine{
		Languages:     append([]string(nil), languages...),
		DPI:           dpi,
		clientFactory: gosseract.NewClient,
	}
}

func (t *Engine) Name() string { return "tesseract" }

func (t *Engine) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := pageimage.EncodePNG(img)
	if err != nil {
		return "", err
	}

	c := t.clientFactory()
	defer c.Close()

	if len(t.Languages) > 0 {
		if err := c.SetLanguage(t.Languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if t.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(t.DPI)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range t.Variables {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return "", fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return ocr.Clean(text), nil
}
