// Package report aggregates per-document conversion outcomes into the
// completion summary shown to the user and written to the run log.
package report

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/toricodesthings/pdfconvert/internal/types"
)

var ErrFinalized = errors.New("report already finalized")

// Builder accumulates outcomes in input order. Parallel callers reserve a
// slot per input up front (NewSized) and fill it with Set; the summary is
// always in slot order regardless of completion order.
type Builder struct {
	mu        sync.Mutex
	outcomes  []types.ConversionOutcome
	filled    []bool
	finalized bool
}

func NewBuilder() *Builder { return &Builder{} }

// NewSized reserves n slots, one per input document.
func NewSized(n int) *Builder {
	return &Builder{
		outcomes: make([]types.ConversionOutcome, n),
		filled:   make([]bool, n),
	}
}

// Add appends the next outcome in input order.
func (b *Builder) Add(o types.ConversionOutcome) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finalized {
		return ErrFinalized
	}
	b.outcomes = append(b.outcomes, o)
	b.filled = append(b.filled, true)
	return nil
}

// Set records the outcome of input i.
func (b *Builder) Set(i int, o types.ConversionOutcome) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finalized {
		return ErrFinalized
	}
	if i < 0 || i >= len(b.outcomes) {
		return fmt.Errorf("report slot %d out of range [0,%d)", i, len(b.outcomes))
	}
	b.outcomes[i] = o
	b.filled[i] = true
	return nil
}

// Finalize freezes the builder and returns the summary. Reserved slots that
// were never filled count as documents that were not converted. Later calls
// return an equal summary.
func (b *Builder) Finalize() Summary {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finalized = true

	s := Summary{
		Outcomes: make([]types.ConversionOutcome, len(b.outcomes)),
		Total:    len(b.outcomes),
	}
	copy(s.Outcomes, b.outcomes)
	for i, o := range s.Outcomes {
		if !b.filled[i] {
			o.Err = errors.New("not processed")
			s.Outcomes[i] = o
		}
		if o.UsedOCR {
			s.OCRDocuments++
		}
		s.PageErrors += len(o.PageErrors)
		if o.Success && b.filled[i] {
			s.Converted++
			continue
		}
		s.Missing++
		s.MissingNames = append(s.MissingNames, o.Document)
	}
	return s
}

// Summary is the immutable result of a run. Its slices are copies; mutating
// them does not affect the builder.
type Summary struct {
	Outcomes     []types.ConversionOutcome `json:"outcomes"`
	Total        int                       `json:"total"`
	Converted    int                       `json:"converted"`
	Missing      int                       `json:"missing"`
	MissingNames []string                  `json:"missingNames"`
	PageErrors   int                       `json:"pageErrors"`
	OCRDocuments int                       `json:"ocrDocuments"`
}

func (s Summary) OK() bool { return s.Missing == 0 }

// Render writes the plain-text completion message.
func (s Summary) Render(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("\nConversion Completed\n\n")
	ew.printf("%d of %d files converted (%d needed OCR)\n", s.Converted, s.Total, s.OCRDocuments)
	ew.printf("%d files not converted:\n", s.Missing)
	for _, name := range s.MissingNames {
		ew.printf("%s\n", name)
	}
	if s.PageErrors > 0 {
		ew.printf("\n%d pages failed OCR:\n", s.PageErrors)
		for _, o := range s.Outcomes {
			for _, pe := range o.PageErrors {
				ew.printf("%s page %d: %v\n", o.Document, pe.Index+1, pe.Err)
			}
		}
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
