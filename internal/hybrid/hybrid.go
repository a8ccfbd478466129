package hybrid

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/toricodesthings/pdfconvert/internal/events"
	"github.com/toricodesthings/pdfconvert/internal/ocr"
	"github.com/toricodesthings/pdfconvert/internal/quality"
	"github.com/toricodesthings/pdfconvert/internal/sink"
	"github.com/toricodesthings/pdfconvert/internal/types"
)

// DefaultDPI is the rasterization resolution for OCR.
const DefaultDPI = 300

// Document is a loaded source PDF as the pipeline sees it.
type Document interface {
	Name() string
	Text() (string, error)
	PageCount() int
	RenderPage(index, dpi int) (image.Image, error)
}

// Options tune the strategy decision and rendering. Zero fields mean "use
// the default"; config.Validate never lets a zero through.
type Options struct {
	MinDocLength int
	DPI          int
}

func WithDefaults(o Options) Options {
	if o.MinDocLength <= 0 {
		o.MinDocLength = quality.DefaultMinDocLength
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	return o
}

// Processor decides, per document, between the embedded text layer and
// page-by-page OCR, and drives whichever it picked into a sink.
type Processor struct {
	engine ocr.Engine
	opts   Options
	notify events.Notifier
}

func New(engine ocr.Engine, opts Options, notify events.Notifier) *Processor {
	if notify == nil {
		notify = events.Discard
	}
	return &Processor{
		engine: engine,
		opts:   WithDefaults(opts),
		notify: notify,
	}
}

func (p *Processor) Options() Options { return p.opts }

// WithNotifier returns a copy of p that reports to n.
func (p *Processor) WithNotifier(n events.Notifier) *Processor {
	if n == nil {
		n = events.Discard
	}
	cp := *p
	cp.notify = n
	return &cp
}

// Process converts one document into s and finalizes s. It never returns
// early on a page failure: every page is attempted and every failure is
// recorded in the outcome. path identifies the document in events and in
// the outcome.
func (p *Processor) Process(ctx context.Context, path string, doc Document, s sink.Sink) types.ConversionOutcome {
	start := time.Now()
	out := types.ConversionOutcome{
		Document: path,
		Name:     doc.Name(),
		Loaded:   true,
		Pages:    doc.PageCount(),
	}

	res, chars, pageErrs := p.extract(ctx, path, doc, s, false)
	out.UsedOCR = res.UsedOCR
	out.Chars = chars
	out.PageErrors = pageErrs

	fin := s.Finalize()
	out.TextWritten = fin.TextWritten()
	out.DocWritten = fin.DocWritten()
	out.Success = fin.OK()
	p.reportArtifact(path, fin.TextPath, fin.TextErr)
	p.reportArtifact(path, fin.DocPath, fin.DocErr)
	out.Err = errors.Join(fin.TextErr, fin.DocErr)

	out.Duration = time.Since(start)
	p.notify.Notify(events.Event{
		Kind:     events.DocumentDone,
		Document: path,
		Pages:    out.Pages,
		Success:  out.Success,
	})
	return out
}

// Extract runs the strategy decision and the chosen branch without
// finalizing s. Exactly one branch runs per call. Unlike Process it also
// returns the extracted text, so OCR output is held in memory once more.
func (p *Processor) Extract(ctx context.Context, path string, doc Document, s sink.Sink) (types.ExtractionResult, []types.PageError) {
	res, _, errs := p.extract(ctx, path, doc, s, true)
	return res, errs
}

// extract leaves ExtractionResult.Text empty on the OCR path unless keepText
// is set; the sink already holds every page.
func (p *Processor) extract(ctx context.Context, path string, doc Document, s sink.Sink, keepText bool) (types.ExtractionResult, int, []types.PageError) {
	raw, err := doc.Text()
	if err != nil {
		// Unreadable pages simply contribute no text; the length rule decides.
		p.notify.Notify(events.Event{
			Kind:     events.Warning,
			Document: path,
			Err:      err,
			Message:  fmt.Sprintf("Warning: text layer of %s partly unreadable: %v", path, err),
		})
	}
	chars := quality.Length(raw)

	if !quality.IsScanLike(raw, p.opts.MinDocLength) {
		text := strings.TrimSpace(raw)
		s.Append(text)
		return types.ExtractionResult{Text: text, UsedOCR: false}, chars, nil
	}

	p.notify.Notify(events.Event{Kind: events.OCRNeeded, Document: path, Pages: doc.PageCount()})
	text, pageErrs := p.ocrPages(ctx, path, doc, s, keepText)
	return types.ExtractionResult{Text: text, UsedOCR: true}, chars, pageErrs
}

// ocrPages renders, recognizes and appends each page in ascending order.
// Each page yields a PageOutcome; the outcomes are folded into the page
// errors list and, when keepText is set, the recognized text.
func (p *Processor) ocrPages(ctx context.Context, path string, doc Document, s sink.Sink, keepText bool) (string, []types.PageError) {
	n := doc.PageCount()
	var (
		text     strings.Builder
		pageErrs []types.PageError
	)
	for i := 0; i < n; i++ {
		po := p.recognizePage(ctx, doc, i)
		if !po.OK() {
			pageErrs = append(pageErrs, types.PageError{Index: i, Err: po.Err})
			p.notify.Notify(events.Event{
				Kind:     events.PageFailed,
				Document: path,
				Page:     i,
				Pages:    n,
				Err:      po.Err,
			})
			continue
		}
		s.Append(po.Text)
		if keepText {
			text.WriteString(po.Text)
		}
		p.notify.Notify(events.Event{Kind: events.PageRecognized, Document: path, Page: i, Pages: n})
	}
	return text.String(), pageErrs
}

func (p *Processor) recognizePage(ctx context.Context, doc Document, i int) types.PageOutcome {
	if err := ctx.Err(); err != nil {
		return types.PageOutcome{Index: i, Err: &types.OcrError{Page: i, Err: err}}
	}

	img, err := doc.RenderPage(i, p.opts.DPI)
	if err != nil {
		return types.PageOutcome{Index: i, Err: &types.OcrError{Page: i, Err: err}}
	}

	txt, err := p.engine.Recognize(ctx, img)
	if err != nil {
		return types.PageOutcome{Index: i, Err: &types.OcrError{Page: i, Err: err}}
	}
	return types.PageOutcome{Index: i, Text: txt}
}

func (p *Processor) reportArtifact(path, artifact string, err error) {
	if err != nil {
		p.notify.Notify(events.Event{Kind: events.ArtifactFailed, Document: path, Path: artifact, Err: err})
		return
	}
	p.notify.Notify(events.Event{Kind: events.FileSaved, Document: path, Path: artifact})
}

// Classification is the strategy decision for a document without running
// it: what a conversion would do, and why.
type Classification struct {
	Document string        `json:"document"`
	Pages    int           `json:"pages"`
	ScanLike bool          `json:"scanLike"`
	Stats    quality.Stats `json:"stats"`
	Error    *string       `json:"error,omitempty"`
}

func (c Classification) Method() string {
	if c.ScanLike {
		return types.MethodOCR
	}
	return types.MethodTextLayer
}

// Classify reads only the text layer. No page is rendered or recognized.
func (p *Processor) Classify(path string, doc Document) Classification {
	raw, err := doc.Text()
	c := Classification{
		Document: path,
		Pages:    doc.PageCount(),
		ScanLike: quality.IsScanLike(raw, p.opts.MinDocLength),
		Stats:    quality.Measure(raw),
	}
	if err != nil {
		msg := err.Error()
		c.Error = &msg
	}
	return c
}
