package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/toricodesthings/pdfconvert/internal/batch"
	"github.com/toricodesthings/pdfconvert/internal/config"
	"github.com/toricodesthings/pdfconvert/internal/events"
	"github.com/toricodesthings/pdfconvert/internal/extractor"
	"github.com/toricodesthings/pdfconvert/internal/hybrid"
	"github.com/toricodesthings/pdfconvert/internal/logging"
	"github.com/toricodesthings/pdfconvert/internal/ocr"
	"github.com/toricodesthings/pdfconvert/internal/ocr/tesseract"
	"github.com/toricodesthings/pdfconvert/internal/ui"
)

type flags struct {
	configFile   string
	workers      int
	minDocLength int
	dpi          int
	languages    []string
	noColor      bool
	verbose      bool
	noProgress   bool
	noPreflight  bool
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&flags{})
}

func buildRootCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdfconvert <dir>",
		Short: "Convert every PDF in a folder to .txt and .doc, with OCR for scans",
		Long: `pdfconvert reads every PDF directly inside <dir>. Documents with a usable
text layer are copied out as-is; documents that look scanned are rendered
page by page and run through Tesseract. Results land in <dir>/Converted:
TXTFiles/<name>.txt, DocxFiles/<name>.doc and a log.txt of the run.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return runConvert(cmd, cfg, args[0])
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configFile, "config", "c", "", "YAML config file")
	pf.IntVar(&f.minDocLength, "min-doc-length", 0, "text layers shorter than this (in characters) go to OCR")
	pf.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "log every event, including per-page OCR progress")
	pf.BoolVar(&f.noPreflight, "no-preflight", false, "skip the structural PDF check before loading")

	fl := cmd.Flags()
	fl.IntVarP(&f.workers, "workers", "w", 0, "documents converted at once")
	fl.IntVar(&f.dpi, "dpi", 0, "render resolution for OCR")
	fl.StringSliceVarP(&f.languages, "lang", "l", nil, "Tesseract languages, e.g. eng,deu")
	fl.BoolVar(&f.noProgress, "no-progress", false, "print one line per event instead of a progress bar")

	cmd.AddCommand(newPreviewCmd(f))
	return cmd
}

// loadConfig layers the CLI flags the user actually set over config.Load.
func loadConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return cfg, err
	}

	changed := cmd.Flags().Changed
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("min-doc-length") {
		cfg.MinDocLength = f.minDocLength
	}
	if changed("dpi") {
		cfg.DPI = f.dpi
	}
	if changed("lang") {
		cfg.Languages = f.languages
	}
	if changed("no-color") {
		cfg.NoColor = f.noColor
	}
	if changed("no-progress") {
		cfg.Progress = !f.noProgress
	}
	if changed("no-preflight") {
		cfg.Preflight = !f.noPreflight
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newProcessor(cfg config.Config) *hybrid.Processor {
	engine := ocr.NewThrottled(
		tesseract.New(cfg.Languages, cfg.DPI),
		cfg.MaxOCRConcurrent,
		cfg.OCRPagesPerSecond,
	)
	return hybrid.New(engine, hybrid.Options{MinDocLength: cfg.MinDocLength, DPI: cfg.DPI}, nil)
}

func runConvert(cmd *cobra.Command, cfg config.Config, dir string) error {
	// Listed once: the progress bar total and the batch are the same list.
	inputs, err := extractor.EnumerateInputs(dir)
	if err != nil {
		return err
	}

	runID := uuid.NewString()

	log := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		NoColor: cfg.NoColor,
		Output:  cmd.ErrOrStderr(),
		RunID:   runID,
	})
	log.Info().
		Str("dir", dir).
		Int("documents", len(inputs)).
		Int("workers", cfg.Workers).
		Int("min_doc_length", cfg.MinDocLength).
		Msg("Starting conversion")

	var (
		display  events.Notifier
		progress *ui.Progress
	)
	switch {
	case log.GetLevel() <= zerolog.DebugLevel:
		display = logging.Notifier(log)
	case cfg.Progress:
		progress = ui.NewProgress(cmd.ErrOrStderr(), len(inputs))
		display = progress
	default:
		display = ui.NewConsole(cmd.OutOrStdout(), cfg.NoColor)
	}

	runner := batch.New(newProcessor(cfg), batch.FitzOpener(cfg.Preflight), batch.Options{
		OutputDirName: cfg.OutputDirName,
		TextDirName:   cfg.TextDirName,
		DocDirName:    cfg.DocDirName,
		LogFileName:   cfg.LogFileName,
		Workers:       cfg.Workers,
		RunID:         runID,
	}, display)

	summary, err := runner.RunInputs(cmd.Context(), dir, inputs)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return err
	}

	ui.PrintSummary(cmd.OutOrStdout(), summary, cfg.NoColor)
	log.Info().
		Int("converted", summary.Converted).
		Int("missing", summary.Missing).
		Int("page_errors", summary.PageErrors).
		Msg("Conversion finished")

	if !summary.OK() {
		return errIncomplete
	}
	return nil
}
