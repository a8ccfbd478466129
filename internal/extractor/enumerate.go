package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EnumerateInputs lists the PDF files directly inside dir, sorted by name.
// The returned order is the batch order.
func EnumerateInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
