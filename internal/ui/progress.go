// Package ui renders a run for a person at a terminal: a progress bar fed
// by pipeline events, colored event lines and the completion summary.
package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/toricodesthings/pdfconvert/internal/events"
)

// Progress advances one step per finished document and shows the document
// currently being loaded. It is safe for concurrent document workers.
type Progress struct {
	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	done int
}

func NewProgress(w io.Writer, total int) *Progress {
	bar := progressbar.NewOptions(
		total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &Progress{bar: bar}
}

func (p *Progress) Notify(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch e.Kind {
	case events.FileLoaded:
		p.bar.Describe(filepath.Base(e.Document))
	case events.OCRNeeded:
		p.bar.Describe(filepath.Base(e.Document) + " (OCR)")
	case events.DocumentDone:
		p.done++
		_ = p.bar.Add(1)
	}
}

// Done is the number of documents finished so far.
func (p *Progress) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Finish()
}
