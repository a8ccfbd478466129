package extractor

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"github.com/gen2brain/go-fitz"

	"github.com/toricodesthings/pdfconvert/internal/format"
	"github.com/toricodesthings/pdfconvert/internal/types"
)

// Document is a loaded PDF backed by MuPDF. It is owned by one document
// worker for its whole lifetime and closed once that document is finalized.
type Document struct {
	path  string
	doc   *fitz.Document
	pages int

	closeOnce sync.Once
	closeErr  error
}

// Open loads the PDF at path. When preflight is set the file is first
// checked by Preflight so structurally broken files surface as a LoadError
// instead of a MuPDF crash path. Every failure is a *types.LoadError.
func Open(path string, preflight bool) (*Document, error) {
	if preflight {
		if err := Preflight(path); err != nil {
			return nil, &types.LoadError{Path: path, Err: err}
		}
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, &types.LoadError{Path: path, Err: err}
	}

	return &Document{
		path:  path,
		doc:   doc,
		pages: doc.NumPage(),
	}, nil
}

func (d *Document) Path() string { return d.path }

// Name is the identifier output files are derived from: the base file name
// including its extension.
func (d *Document) Name() string { return filepath.Base(d.path) }

func (d *Document) PageCount() int { return d.pages }

// Text returns the embedded text layer of the whole document, pages joined
// in order. Pages whose text cannot be read contribute nothing; the first
// such error is returned alongside whatever text was recovered.
func (d *Document) Text() (string, error) {
	pages := make([]string, 0, d.pages)
	var firstErr error
	for i := 0; i < d.pages; i++ {
		txt, err := d.doc.Text(i)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("text page %d: %w", i, err)
			}
			txt = ""
		}
		pages = append(pages, txt)
	}
	return format.JoinPages(pages), firstErr
}

// RenderPage rasterizes page index at dpi.
func (d *Document) RenderPage(index, dpi int) (image.Image, error) {
	if index < 0 || index >= d.pages {
		return nil, fmt.Errorf("%w: page %d out of range [0,%d)", types.ErrRender, index, d.pages)
	}
	img, err := d.doc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", types.ErrRender, index, err)
	}
	return img, nil
}

func (d *Document) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.doc.Close()
	})
	return d.closeErr
}
