package sink

import (
	"strings"
	"unicode/utf8"
)

// Sanitize makes a block representable in both artifacts: invalid UTF-8 and
// runes XML 1.0 cannot carry (C0 controls other than tab, newline and CR,
// surrogates, U+FFFE and U+FFFF) become U+FFFD. Both artifacts receive the
// sanitized block, so their text stays identical.
func Sanitize(text string) string {
	text = strings.ToValidUTF8(text, string(utf8.RuneError))
	if strings.IndexFunc(text, notXMLChar) < 0 {
		return text
	}
	return strings.Map(func(r rune) rune {
		if notXMLChar(r) {
			return utf8.RuneError
		}
		return r
	}, text)
}

func notXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20:
		return true
	case r >= 0xD800 && r <= 0xDFFF:
		return true
	case r == 0xFFFE || r == 0xFFFF:
		return true
	}
	return r > utf8.MaxRune
}
