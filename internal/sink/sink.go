// Package sink accumulates one document's text and persists it as a plain
// text artifact and a word-processor artifact with identical content.
package sink

// Sink receives text blocks in content order. One sink serves exactly one
// document and is finalized once.
type Sink interface {
	Append(text string)
	Finalize() FinalizeResult
}

// FinalizeResult reports each artifact independently: a failure writing one
// never prevents the other from being attempted.
type FinalizeResult struct {
	TextPath string
	DocPath  string
	TextErr  error
	DocErr   error
}

func (r FinalizeResult) TextWritten() bool { return r.TextErr == nil }
func (r FinalizeResult) DocWritten() bool  { return r.DocErr == nil }
func (r FinalizeResult) OK() bool          { return r.TextErr == nil && r.DocErr == nil }
