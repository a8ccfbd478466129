package extractor

import (
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var ErrNotPDF = errors.New("not a PDF")

func init() {
	// pdfcpu otherwise installs a config dir under the user's home on first use.
	api.DisableConfigDir()
}

// Preflight rejects files that cannot be a PDF (magic bytes) and files
// pdfcpu cannot parse even in relaxed mode.
func Preflight(path string) error {
	if err := validatePDFMagic(path); err != nil {
		return err
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("pdfcpu validate: %w", err)
	}
	return nil
}

// validatePDFMagic checks that a file starts with %PDF (the PDF magic bytes).
func validatePDFMagic(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open for validation: %w", err)
	}
	defer f.Close()

	header := make([]byte, 5)
	n, err := f.Read(header)
	if err != nil || n < 5 {
		return fmt.Errorf("%w: file is too small", ErrNotPDF)
	}

	if string(header[:4]) != "%PDF" {
		return fmt.Errorf("%w: starts with %q", ErrNotPDF, string(header[:n]))
	}
	return nil
}
