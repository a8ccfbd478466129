package sink

import (
	"strings"
	"sync"
)

// Memory is an in-process Sink. Blocks are sanitized like File's. TextErr and DocErr, when set, are reported
// by Finalize as if writing that artifact had failed.
type Memory struct {
	TextErr error
	DocErr  error

	mu        sync.Mutex
	blocks    []string
	finalized bool
	finalizes int
}

func (m *Memory) Append(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finalized {
		return
	}
	m.blocks = append(m.blocks, Sanitize(text))
}

func (m *Memory) Finalize() FinalizeResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finalized = true
	m.finalizes++
	return FinalizeResult{TextErr: m.TextErr, DocErr: m.DocErr}
}

// Blocks returns the appended blocks in order.
func (m *Memory) Blocks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.blocks...)
}

// Text is the content the text artifact would hold.
func (m *Memory) Text() string {
	return strings.Join(m.Blocks(), "")
}

func (m *Memory) Finalizes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finalizes
}
