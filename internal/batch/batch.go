// Package batch converts every PDF in a directory: it lays out the output
// tree, opens each document, runs the extraction pipeline on it and folds
// the outcomes into the run report.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/toricodesthings/pdfconvert/internal/events"
	"github.com/toricodesthings/pdfconvert/internal/extractor"
	"github.com/toricodesthings/pdfconvert/internal/hybrid"
	"github.com/toricodesthings/pdfconvert/internal/logging"
	"github.com/toricodesthings/pdfconvert/internal/report"
	"github.com/toricodesthings/pdfconvert/internal/sink"
	"github.com/toricodesthings/pdfconvert/internal/types"
)

// ErrOutputExists stops a run whose output directory is already present.
// Runs never merge into or resume a previous output tree.
var ErrOutputExists = errors.New("output directory already exists")

// Document is what an Opener hands back: the pipeline's view plus Close.
type Document interface {
	hybrid.Document
	io.Closer
}

// Opener loads one input. Failures should be *types.LoadError.
type Opener func(path string) (Document, error)

// FitzOpener opens documents with MuPDF, optionally behind the pdfcpu
// preflight check.
func FitzOpener(preflight bool) Opener {
	return func(path string) (Document, error) {
		d, err := extractor.Open(path, preflight)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

type Layout struct {
	Root    string
	TextDir string
	DocDir  string
	LogPath string
}

// TextPath and DocPath derive artifact names solely from the document name.
func (l Layout) TextPath(name string) string { return filepath.Join(l.TextDir, name+".txt") }
func (l Layout) DocPath(name string) string  { return filepath.Join(l.DocDir, name+".doc") }

type Options struct {
	OutputDirName string
	TextDirName   string
	DocDirName    string
	LogFileName   string
	Workers       int
	// RunID tags the run log; generated when empty.
	RunID         string
}

func (o Options) withDefaults() Options {
	if o.OutputDirName == "" {
		o.OutputDirName = "Converted"
	}
	if o.TextDirName == "" {
		o.TextDirName = "TXTFiles"
	}
	if o.DocDirName == "" {
		o.DocDirName = "DocxFiles"
	}
	if o.LogFileName == "" {
		o.LogFileName = "log.txt"
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.RunID == "" {
		o.RunID = uuid.NewString()
	}
	return o
}

func (o Options) Layout(inputDir string) Layout {
	o = o.withDefaults()
	root := filepath.Join(inputDir, o.OutputDirName)
	return Layout{
		Root:    root,
		TextDir: filepath.Join(root, o.TextDirName),
		DocDir:  filepath.Join(root, o.DocDirName),
		LogPath: filepath.Join(root, o.LogFileName),
	}
}

type Runner struct {
	processor *hybrid.Processor
	open      Opener
	opts      Options
	notify    events.Notifier
}

// New builds a runner. notify observes every event of the run (display,
// console log); the persisted run log is added by Run itself.
func New(processor *hybrid.Processor, open Opener, opts Options, notify events.Notifier) *Runner {
	if notify == nil {
		notify = events.Discard
	}
	return &Runner{
		processor: processor,
		open:      open,
		opts:      opts.withDefaults(),
		notify:    notify,
	}
}

func (r *Runner) RunID() string { return r.opts.RunID }

// PrepareLayout creates the output tree. The output root must not exist.
func (r *Runner) PrepareLayout(inputDir string, notify events.Notifier) (Layout, error) {
	l := r.opts.Layout(inputDir)

	if err := os.Mkdir(l.Root, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return l, fmt.Errorf("%w: %s (remove it before running again)", ErrOutputExists, l.Root)
		}
		return l, fmt.Errorf("create output dir: %w", err)
	}
	for _, d := range []string{l.TextDir, l.DocDir} {
		if err := os.Mkdir(d, 0o755); err != nil {
			return l, fmt.Errorf("create output dir: %w", err)
		}
		notify.Notify(events.Event{Kind: events.DirCreated, Path: d})
	}
	return l, nil
}

// Run converts every PDF directly inside inputDir. Per-document failures
// are recorded in the summary; only a missing input directory, an existing
// or uncreatable output tree, or an unwritable run log stop the run.
func (r *Runner) Run(ctx context.Context, inputDir string) (report.Summary, error) {
	inputs, err := extractor.EnumerateInputs(inputDir)
	if err != nil {
		return report.Summary{}, err
	}
	return r.RunInputs(ctx, inputDir, inputs)
}

// RunInputs converts inputs, already listed by the caller, with the output
// tree under inputDir. The summary has exactly one outcome per input, in
// the given order.
func (r *Runner) RunInputs(ctx context.Context, inputDir string, inputs []string) (report.Summary, error) {
	// Events emitted before the log file exists still reach the display.
	l, err := r.PrepareLayout(inputDir, r.notify)
	if err != nil {
		return report.Summary{}, err
	}

	logFile, err := os.Create(l.LogPath)
	if err != nil {
		return report.Summary{}, fmt.Errorf("create run log: %w", err)
	}
	defer logFile.Close()

	fileLog := logging.NewFile(logFile, r.opts.RunID)
	fileLog.Info().
		Str("input_dir", inputDir).
		Int("documents", len(inputs)).
		Int("workers", r.opts.Workers).
		Msg("Conversion started")
	for _, d := range []string{l.TextDir, l.DocDir} {
		fileLog.Info().Str("event", events.DirCreated.String()).Msg(d + " directory created")
	}

	notify := events.Multi{r.notify, logging.Notifier(fileLog)}
	summary := r.convertAll(ctx, inputs, l, notify)

	notify.Notify(events.Event{
		Kind:    events.Completed,
		Message: fmt.Sprintf("Conversion Completed: %d of %d converted", summary.Converted, summary.Total),
	})
	if err := summary.Render(logFile); err != nil {
		return summary, fmt.Errorf("write run log: %w", err)
	}
	return summary, nil
}

// convertAll processes inputs with up to Workers documents in flight.
// Outcomes land in pre-reserved slots, so the summary follows input order
// whatever the completion order.
func (r *Runner) convertAll(ctx context.Context, inputs []string, l Layout, notify events.Notifier) report.Summary {
	b := report.NewSized(len(inputs))
	p := r.processor.WithNotifier(notify)

	g := new(errgroup.Group)
	g.SetLimit(r.opts.Workers)
	for i, path := range inputs {
		g.Go(func() error {
			// Set only fails on a finalized builder or bad index; neither
			// can happen before Wait returns.
			_ = b.Set(i, r.convertOne(ctx, p, path, l, notify))
			return nil
		})
	}
	_ = g.Wait()

	return b.Finalize()
}

func (r *Runner) convertOne(ctx context.Context, p *hybrid.Processor, path string, l Layout, notify events.Notifier) types.ConversionOutcome {
	name := filepath.Base(path)

	if err := ctx.Err(); err != nil {
		notify.Notify(events.Event{Kind: events.Error, Document: path, Err: err})
		notify.Notify(events.Event{Kind: events.DocumentDone, Document: path, Success: false})
		return types.NotLoaded(path, name, err)
	}

	doc, err := r.open(path)
	if err != nil {
		var le *types.LoadError
		if !errors.As(err, &le) {
			err = &types.LoadError{Path: path, Err: err}
		}
		notify.Notify(events.Event{Kind: events.Error, Document: path, Err: err})
		notify.Notify(events.Event{Kind: events.DocumentDone, Document: path, Success: false})
		return types.NotLoaded(path, name, err)
	}
	defer doc.Close()

	notify.Notify(events.Event{Kind: events.FileLoaded, Document: path, Pages: doc.PageCount()})

	textPath, docPath := l.TextPath(doc.Name()), l.DocPath(doc.Name())
	notify.Notify(events.Event{Kind: events.FileCreated, Document: path, Path: textPath})
	notify.Notify(events.Event{Kind: events.FileCreated, Document: path, Path: docPath})

	return p.Process(ctx, path, doc, sink.NewFile(textPath, docPath))
}
