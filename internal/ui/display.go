package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/toricodesthings/pdfconvert/internal/events"
	"github.com/toricodesthings/pdfconvert/internal/hybrid"
	"github.com/toricodesthings/pdfconvert/internal/report"
)

type palette struct {
	ok, warn, fail, info, title *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		ok:    color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed),
		info:  color.New(color.FgCyan),
		title: color.New(color.FgCyan, color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.ok, p.warn, p.fail, p.info, p.title} {
			c.DisableColor()
		}
	}
	return p
}

// Console prints one line per event, the way the conversion reads when no
// progress bar is shown. Per-page progress is left to the log.
type Console struct {
	mu  sync.Mutex
	w   io.Writer
	pal palette
}

func NewConsole(w io.Writer, noColor bool) *Console {
	return &Console{w: w, pal: newPalette(noColor)}
}

func (c *Console) Notify(e events.Event) {
	if e.Kind == events.PageRecognized {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case e.Kind.IsFailure():
		c.pal.fail.Fprintln(c.w, "✗ "+e.String())
	case e.Kind == events.Warning || e.Kind == events.OCRNeeded:
		c.pal.warn.Fprintln(c.w, "⚠ "+e.String())
	case e.Kind == events.FileSaved || (e.Kind == events.DocumentDone && e.Success):
		c.pal.ok.Fprintln(c.w, "✓ "+e.String())
	case e.Kind == events.DocumentDone:
		c.pal.fail.Fprintln(c.w, "✗ "+e.String())
	default:
		fmt.Fprintln(c.w, "  "+e.String())
	}
}

// PrintSummary writes the completion summary with the failures highlighted.
func PrintSummary(w io.Writer, s report.Summary, noColor bool) {
	pal := newPalette(noColor)

	fmt.Fprintln(w)
	pal.title.Fprintln(w, "Conversion Completed")
	fmt.Fprintln(w)

	line := pal.ok
	if s.Missing > 0 {
		line = pal.warn
	}
	line.Fprintf(w, "%d of %d files converted (%d needed OCR)\n", s.Converted, s.Total, s.OCRDocuments)

	if s.Missing == 0 {
		pal.ok.Fprintln(w, "0 files not converted")
	} else {
		pal.fail.Fprintf(w, "%d files not converted:\n", s.Missing)
		for _, name := range s.MissingNames {
			pal.fail.Fprintf(w, "  %s\n", name)
		}
	}

	if s.PageErrors > 0 {
		fmt.Fprintln(w)
		pal.warn.Fprintf(w, "%d pages failed OCR:\n", s.PageErrors)
		for _, o := range s.Outcomes {
			for _, pe := range o.PageErrors {
				pal.warn.Fprintf(w, "  %s page %d: %v\n", o.Document, pe.Index+1, pe.Err)
			}
		}
	}
}

// PrintClassification writes one preview line per document. A document
// that could not be opened has no pages and carries the load error.
func PrintClassification(w io.Writer, c hybrid.Classification, noColor bool) {
	pal := newPalette(noColor)
	if c.Pages == 0 && c.Error != nil {
		pal.fail.Fprintf(w, "%-10s", "unreadable")
		fmt.Fprintf(w, " %s: %s\n", c.Document, *c.Error)
		return
	}

	method := pal.ok
	if c.ScanLike {
		method = pal.warn
	}
	method.Fprintf(w, "%-10s", c.Method())
	fmt.Fprintf(w, " %4d pages %7d chars  %s\n", c.Pages, c.Stats.Chars, c.Document)
	if c.Error != nil {
		pal.fail.Fprintf(w, "           text layer: %s\n", *c.Error)
	}
}
