package ocr

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Only the binary may link libtesseract: library packages and their tests
// must build on machines without the C headers.
func TestOnlyTesseractPackageImportsGosseract(t *testing.T) {
	root := filepath.Join("..")
	fset := token.NewFileSet()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		if filepath.Base(filepath.Dir(path)) == "tesseract" {
			return nil
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, imp := range f.Imports {
			p, _ := strconv.Unquote(imp.Path.Value)
			assert.NotContains(t, p, "gosseract", path)
			assert.False(t, strings.HasSuffix(p, "/internal/ocr/tesseract"), "%s imports the tesseract engine", path)
		}
		return nil
	})
	require.NoError(t, err)
}
