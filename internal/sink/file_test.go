package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toricodesthings/pdfconvert/internal/types"
)

func newFileSink(t *testing.T) (*File, string, string) {
	t.Helper()
	dir := t.TempDir()
	txt := filepath.Join(dir, "A.pdf.txt")
	doc := filepath.Join(dir, "A.pdf.doc")
	return NewFile(txt, doc), txt, doc
}

func TestFileArtifactsHaveIdenticalText(t *testing.T) {
	s, txtPath, docPath := newFileSink(t)

	s.Append("page zero\n")
	s.Append("page one\twith tab\n")
	s.Append("page two\n")
	res := s.Finalize()
	require.True(t, res.OK(), "%v %v", res.TextErr, res.DocErr)

	txt, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	assert.Equal(t, "page zero\npage one\twith tab\npage two\n", string(txt))

	doc, err := os.ReadFile(docPath)
	require.NoError(t, err)
	docText, paragraphs := docxText(t, doc)
	assert.Equal(t, string(txt), docText)
	assert.Equal(t, 3, paragraphs)

	_, err = os.Stat(docPath + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileArtifactsMatchWithControlCharacters(t *testing.T) {
	s, txtPath, docPath := newFileSink(t)

	s.Append("ab\x01cd\x0cef\xffgh\n")
	s.Append("tab\tcr\r\n")
	res := s.Finalize()
	require.True(t, res.OK(), "%v %v", res.TextErr, res.DocErr)

	txt, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	assert.Equal(t, "ab\uFFFDcd\uFFFDef\uFFFDgh\ntab\tcr\r\n", string(txt))

	doc, err := os.ReadFile(docPath)
	require.NoError(t, err)
	docText, _ := docxText(t, doc)
	assert.Equal(t, string(txt), docText)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"keep\ttab\nnewline\rcr", "keep\ttab\nnewline\rcr"},
		{"nul\x00bell\x07", "nul\uFFFDbell\uFFFD"},
		{"bad\xc3utf8", "bad\uFFFDutf8"},
		{"nonchar\uFFFE", "nonchar\uFFFD"},
		{"éèêë 文字", "éèêë 文字"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), "%q", tt.in)
	}
}

func TestFileTextIsWrittenIncrementally(t *testing.T) {
	s, txtPath, _ := newFileSink(t)

	s.Append("early page\n")
	got, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	assert.Equal(t, "early page\n", string(got))

	s.Finalize()
}

func TestFileNoAppendsStillProducesBothArtifacts(t *testing.T) {
	s, txtPath, docPath := newFileSink(t)

	res := s.Finalize()
	require.True(t, res.OK())

	st, err := os.Stat(txtPath)
	require.NoError(t, err)
	assert.Zero(t, st.Size())
	_, err = os.Stat(docPath)
	require.NoError(t, err)
}

func TestFileDocFailureDoesNotBlockText(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "C.pdf.txt")
	docPath := filepath.Join(dir, "missing", "C.pdf.doc")

	s := NewFile(txtPath, docPath)
	s.Append("only page\n")
	res := s.Finalize()

	assert.True(t, res.TextWritten())
	assert.False(t, res.DocWritten())
	assert.ErrorIs(t, res.DocErr, types.ErrSinkWrite)

	var swe *types.SinkWriteError
	require.ErrorAs(t, res.DocErr, &swe)
	assert.Equal(t, "doc", swe.Artifact)

	got, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	assert.Equal(t, "only page\n", string(got))
}

func TestFileTextFailureDoesNotBlockDoc(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "missing", "C.pdf.txt")
	docPath := filepath.Join(dir, "C.pdf.doc")

	s := NewFile(txtPath, docPath)
	s.Append("only page\n")
	res := s.Finalize()

	assert.False(t, res.TextWritten())
	assert.True(t, res.DocWritten())
	assert.ErrorIs(t, res.TextErr, types.ErrSinkWrite)
}

func TestFileFinalizeOnce(t *testing.T) {
	s, txtPath, _ := newFileSink(t)
	s.Append("a")
	first := s.Finalize()
	s.Append("ignored")
	second := s.Finalize()

	assert.Equal(t, first, second)
	got, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	assert.Equal(t, "a", string(got))
}

func TestMemorySink(t *testing.T) {
	m := &Memory{DocErr: os.ErrPermission}
	m.Append("x")
	m.Append("y\x02")
	res := m.Finalize()
	m.Append("z")

	assert.Equal(t, "xy\uFFFD", m.Text())
	assert.Equal(t, []string{"x", "y\uFFFD"}, m.Blocks())
	assert.True(t, res.TextWritten())
	assert.False(t, res.DocWritten())
	assert.Equal(t, 1, m.Finalizes())
}
