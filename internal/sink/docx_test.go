package sink

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docxText reads word/document.xml back into plain text: paragraph text
// concatenated, <w:br/> as newline, <w:tab/> as tab.
func docxText(t *testing.T, data []byte) (string, int) {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var doc *zip.File
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name == "word/document.xml" {
			doc = f
		}
	}
	require.True(t, names["[Content_Types].xml"])
	require.True(t, names["_rels/.rels"])
	require.NotNil(t, doc, "word/document.xml not found in archive")

	rc, err := doc.Open()
	require.NoError(t, err)
	defer rc.Close()

	var sb strings.Builder
	paragraphs := 0
	inText := false
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				paragraphs++
			case "t":
				inText = true
			case "br":
				sb.WriteByte('\n')
			case "tab":
				sb.WriteByte('\t')
			}
		case xml.EndElement:
			if el.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				sb.Write(el)
			}
		}
	}
	return sb.String(), paragraphs
}

func TestWriteDocxParagraphPerBlock(t *testing.T) {
	blocks := []string{
		"First page line one\nline two\n",
		"Tabs\tand <markup> & \"quotes\"\n",
		"",
		"last",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDocx(&buf, blocks))

	text, paragraphs := docxText(t, buf.Bytes())
	assert.Equal(t, strings.Join(blocks, ""), text)
	assert.Equal(t, len(blocks), paragraphs)
}

func TestWriteDocxEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocx(&buf, nil))

	text, paragraphs := docxText(t, buf.Bytes())
	assert.Empty(t, text)
	assert.Equal(t, 1, paragraphs)
}

func TestWriteDocxPreservesLeadingSpaces(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocx(&buf, []string{"   indented\n  twice"}))

	text, _ := docxText(t, buf.Bytes())
	assert.Equal(t, "   indented\n  twice", text)
}
