package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/toricodesthings/pdfconvert/internal/extractor"
	"github.com/toricodesthings/pdfconvert/internal/hybrid"
	"github.com/toricodesthings/pdfconvert/internal/types"
	"github.com/toricodesthings/pdfconvert/internal/ui"
)

// newPreviewCmd reports which path each document would take without
// rendering, recognizing or writing anything.
func newPreviewCmd(f *flags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "preview <dir>",
		Short: "Show which documents would need OCR, without converting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			inputs, err := extractor.EnumerateInputs(args[0])
			if err != nil {
				return err
			}

			p := hybrid.New(nil, hybrid.Options{MinDocLength: cfg.MinDocLength, DPI: cfg.DPI}, nil)
			out := make([]hybrid.Classification, 0, len(inputs))
			for _, path := range inputs {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				out = append(out, classify(p, path, cfg.Preflight))
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			for _, c := range out {
				ui.PrintClassification(cmd.OutOrStdout(), c, cfg.NoColor)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the classification as JSON")
	return cmd
}

func classify(p *hybrid.Processor, path string, preflight bool) hybrid.Classification {
	doc, err := extractor.Open(path, preflight)
	if err != nil {
		msg := err.Error()
		var le *types.LoadError
		if errors.As(err, &le) {
			msg = le.Err.Error()
		}
		return hybrid.Classification{Document: path, Error: &msg}
	}
	defer doc.Close()
	return p.Classify(path, doc)
}
