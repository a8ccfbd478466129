// Package events carries the human-readable notifications the conversion
// pipeline emits. Consumers (console, progress bar, persisted log) observe
// them; delivery failures never reach the pipeline.
package events

import (
	"fmt"
	"sync"
)

type Kind int

const (
	DirCreated Kind = iota
	FileLoaded
	FileCreated
	OCRNeeded
	PageRecognized
	PageFailed
	FileSaved
	ArtifactFailed
	DocumentDone
	Warning
	Error
	Completed
)

var kindNames = map[Kind]string{
	DirCreated:     "dir_created",
	FileLoaded:     "file_loaded",
	FileCreated:    "file_created",
	OCRNeeded:      "ocr_needed",
	PageRecognized: "page_recognized",
	PageFailed:     "page_failed",
	FileSaved:      "file_saved",
	ArtifactFailed: "artifact_failed",
	DocumentDone:   "document_done",
	Warning:        "warning",
	Error:          "error",
	Completed:      "completed",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsFailure reports whether the event records something that went wrong.
func (k Kind) IsFailure() bool {
	return k == PageFailed || k == ArtifactFailed || k == Error
}

type Event struct {
	Kind     Kind
	Document string // input path
	Path     string // output path or directory, when relevant
	Page     int    // zero-based; only meaningful for page events
	Pages    int
	Success  bool // DocumentDone only
	Err      error
	Message  string
}

func (e Event) String() string {
	switch e.Kind {
	case DirCreated:
		return e.Path + " directory created"
	case FileLoaded:
		return "File loaded: " + e.Document
	case FileCreated:
		return "File created: " + e.Path
	case OCRNeeded:
		return "OCR needed: " + e.Document
	case PageRecognized:
		return fmt.Sprintf("OCR page %d/%d: %s", e.Page+1, e.Pages, e.Document)
	case PageFailed:
		return fmt.Sprintf("Error: OCR in %s (page %d): %v", e.Document, e.Page+1, e.Err)
	case FileSaved:
		return "File saved: " + e.Path
	case ArtifactFailed:
		return fmt.Sprintf("Error: could not save %s: %v", e.Path, e.Err)
	case DocumentDone:
		if e.Success {
			return "Converted: " + e.Document
		}
		return "Not converted: " + e.Document
	case Error:
		if e.Document != "" {
			return fmt.Sprintf("Error: %s: %v", e.Document, e.Err)
		}
		return fmt.Sprintf("Error: %v", e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

type Notifier interface {
	Notify(Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

// Discard drops every event.
var Discard Notifier = NotifierFunc(func(Event) {})

// Multi fans an event out to every notifier in order. A panicking consumer
// is isolated so the remaining consumers (and the pipeline) keep going.
type Multi []Notifier

func (m Multi) Notify(e Event) {
	for _, n := range m {
		if n == nil {
			continue
		}
		notifySafely(n, e)
	}
}

func notifySafely(n Notifier, e Event) {
	defer func() { _ = recover() }()
	n.Notify(e)
}

// Synchronized serializes delivery to n, for consumers that are not safe to
// call from several document workers at once.
func Synchronized(n Notifier) Notifier {
	return &syncNotifier{next: n}
}

type syncNotifier struct {
	mu   sync.Mutex
	next Notifier
}

func (s *syncNotifier) Notify(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next.Notify(e)
}

// Recorder keeps every event it sees.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Kinds returns the kinds of the recorded events, optionally restricted to
// one document.
func (r *Recorder) Kinds(document string) []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Kind
	for _, e := range r.events {
		if document != "" && e.Document != document {
			continue
		}
		out = append(out, e.Kind)
	}
	return out
}
