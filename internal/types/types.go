package types

import (
	"errors"
	"fmt"
	"time"
)

// Extraction methods, mirrored in outcomes and the persisted log.
const (
	MethodTextLayer = "text-layer"
	MethodOCR       = "ocr"
)

var (
	ErrLoad      = errors.New("document load failed")
	ErrRender    = errors.New("page render failed")
	ErrOCR       = errors.New("ocr failed")
	ErrSinkWrite = errors.New("output write failed")
)

// LoadError means the document could not be opened. The document is skipped;
// the batch continues.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrLoad, e.Err} }

// OcrError is a single page failure: either the page could not be rendered
// or recognition failed on the rendered bitmap.
type OcrError struct {
	Page int
	Err  error
}

func (e *OcrError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *OcrError) Unwrap() []error { return []error{ErrOCR, e.Err} }

// SinkWriteError is an output artifact that failed to finalize.
type SinkWriteError struct {
	Artifact string // "txt" | "doc"
	Path     string
	Err      error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("write %s artifact %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *SinkWriteError) Unwrap() []error { return []error{ErrSinkWrite, e.Err} }

type ExtractionResult struct {
	Text    string `json:"text"`
	UsedOCR bool   `json:"usedOcr"`
}

func (r ExtractionResult) Method() string {
	if r.UsedOCR {
		return MethodOCR
	}
	return MethodTextLayer
}

// PageOutcome is the result of rendering and recognizing one page. Err is
// nil on success; Text may be empty either way.
type PageOutcome struct {
	Index int
	Text  string
	Err   error
}

func (p PageOutcome) OK() bool { return p.Err == nil }

type PageError struct {
	Index int   `json:"index"`
	Err   error `json:"-"`
}

func (p PageError) Error() string {
	return fmt.Sprintf("page %d: %v", p.Index, p.Err)
}

type ConversionOutcome struct {
	Document string `json:"document"` // input path
	Name     string `json:"name"`     // base name, drives output naming

	Loaded      bool `json:"loaded"`
	UsedOCR     bool `json:"usedOcr"`
	TextWritten bool `json:"textWritten"`
	DocWritten  bool `json:"docWritten"`
	Success     bool `json:"success"`

	Pages      int           `json:"pages"`
	Chars      int           `json:"chars"` // trimmed text-layer length used for the decision
	PageErrors []PageError   `json:"pageErrors,omitempty"`
	Err        error         `json:"-"`
	Duration   time.Duration `json:"duration"`
}

func (o ConversionOutcome) Method() string {
	if o.UsedOCR {
		return MethodOCR
	}
	return MethodTextLayer
}

// PageErrorIndexes returns the failed page indexes in recorded order.
func (o ConversionOutcome) PageErrorIndexes() []int {
	out := make([]int, 0, len(o.PageErrors))
	for _, pe := range o.PageErrors {
		out = append(out, pe.Index)
	}
	return out
}

// NotLoaded builds the outcome recorded for a document that failed to open.
func NotLoaded(path, name string, err error) ConversionOutcome {
	return ConversionOutcome{
		Document: path,
		Name:     name,
		Err:      err,
	}
}
