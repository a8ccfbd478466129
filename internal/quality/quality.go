package quality

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinDocLength is the trimmed text-layer length (in characters) at or
// above which a document is trusted as text-native.
const DefaultMinDocLength = 1500

// Length is the measured text-layer length: characters of the trimmed text.
func Length(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}

// IsScanLike reports whether the text layer is too short to be trusted, so
// the document must be OCRed page by page. A length equal to the threshold
// is text-native.
func IsScanLike(text string, threshold int) bool {
	return Length(text) < threshold
}

// Stats describes a text layer. It never influences the strategy decision;
// it is reported alongside it so odd classifications can be diagnosed.
type Stats struct {
	Chars        int     `json:"chars"`
	Words        int     `json:"words"`
	Lines        int     `json:"lines"`
	AlphaRatio   float64 `json:"alphaRatio"`
	GarbageRatio float64 `json:"garbageRatio"`
}

func CountWords(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	return len(strings.Fields(s))
}

func Measure(text string) Stats {
	clean := strings.TrimSpace(text)
	total := float64(utf8.RuneCountInString(clean))
	if total == 0 {
		return Stats{}
	}

	return Stats{
		Chars:        int(total),
		Words:        CountWords(clean),
		Lines:        len(splitLines(clean)),
		AlphaRatio:   safeDiv(float64(countIf(clean, unicode.IsLetter)), total),
		GarbageRatio: safeDiv(float64(countGarbage(clean)), total),
	}
}

func splitLines(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, ln := range raw {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

func countIf(s string, pred func(rune) bool) int {
	n := 0
	for _, r := range s {
		if pred(r) {
			n++
		}
	}
	return n
}

func countGarbage(s string) int {
	n := 0
	for _, r := range s {
		// Unicode replacement char or control chars (excluding newline/tab)
		if r == '\uFFFD' || (unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r') {
			n++
		}
	}
	return n
}

func safeDiv(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}
