package sink

import (
	"archive/zip"
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`

	relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentFooter = `<w:sectPr/></w:body></w:document>`
)

// WriteDocx writes a minimal WordprocessingML package holding one paragraph
// per block. Newlines inside a block become line breaks and tabs become tab
// runs, so the paragraph text read back equals the block. Characters XML 1.0
// cannot carry are replaced with U+FFFD.
func WriteDocx(w io.Writer, blocks []string) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := io.WriteString(f, p.body); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}

	f, err := zw.Create("word/document.xml")
	if err != nil {
		return fmt.Errorf("create word/document.xml: %w", err)
	}
	bw := bufio.NewWriter(f)
	bw.WriteString(documentHeader)
	if len(blocks) == 0 {
		bw.WriteString("<w:p/>")
	}
	for _, b := range blocks {
		if err := writeParagraph(bw, b); err != nil {
			return err
		}
	}
	bw.WriteString(documentFooter)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write word/document.xml: %w", err)
	}

	return zw.Close()
}

func writeParagraph(w *bufio.Writer, block string) error {
	w.WriteString("<w:p><w:r>")
	for i, line := range strings.Split(block, "\n") {
		if i > 0 {
			w.WriteString("<w:br/>")
		}
		for j, seg := range strings.Split(line, "\t") {
			if j > 0 {
				w.WriteString("<w:tab/>")
			}
			if seg == "" {
				continue
			}
			w.WriteString(`<w:t xml:space="preserve">`)
			if err := xml.EscapeText(w, []byte(seg)); err != nil {
				return fmt.Errorf("escape paragraph text: %w", err)
			}
			w.WriteString("</w:t>")
		}
	}
	_, err := w.WriteString("</w:r></w:p>")
	return err
}
