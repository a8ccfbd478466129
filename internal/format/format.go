package format

import "strings"

// JoinPages combines per-page text-layer output into one document string,
// the way a whole-document text stripper would: pages in order, each
// separated by a newline, line endings normalised. Empty pages are kept as
// empty lines so page boundaries stay stable across runs.
func JoinPages(pages []string) string {
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(NormalizeNewlines(p))
	}
	return b.String()
}

func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
