package ocr

import (
	"regexp"
	"strings"
)

var (
	zeroWidthChars    = regexp.MustCompile("[\u200B-\u200D\uFEFF\u00AD\u2060]")
	excessiveNewlines = regexp.MustCompile(`\n{4,}`)
	trailingSpaces    = regexp.MustCompile(`(?m)[ \t]+$`)
)

// Clean applies light-touch cleaning to raw engine output:
//   - Strips zero-width / invisible unicode characters
//   - Normalises line endings and trailing spaces
//   - Collapses excessive blank lines
//
// The result is terminated by a single newline so consecutive
// pages stay separated once appended to the output. Blank pages yield "".
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = zeroWidthChars.ReplaceAllString(text, "")

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = trailingSpaces.ReplaceAllString(text, "")
	text = excessiveNewlines.ReplaceAllString(text, "\n\n\n")

	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return text + "\n"
}
