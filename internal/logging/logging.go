// Package logging configures zerolog for the console and for the persisted
// run log, and turns pipeline events into log entries.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/toricodesthings/pdfconvert/internal/events"
)

type Config struct {
	Level   string // debug | info | warn | error
	Format  string // console | json
	NoColor bool
	Output  io.Writer
	RunID   string
}

// New builds the interactive logger (stderr by default).
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var zl zerolog.Logger
	if cfg.Format == "json" {
		zl = zerolog.New(out)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    cfg.NoColor,
			TimeFormat: time.Kitchen,
		})
	}

	ctx := zl.With().Timestamp()
	if cfg.RunID != "" {
		ctx = ctx.Str("run_id", cfg.RunID)
	}
	return ctx.Logger().Level(ParseLevel(cfg.Level))
}

// NewFile builds the logger for the persisted run log: plain console format,
// no color, every level, safe for concurrent document workers.
func NewFile(w io.Writer, runID string) zerolog.Logger {
	zl := zerolog.New(zerolog.SyncWriter(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}))
	ctx := zl.With().Timestamp()
	if runID != "" {
		ctx = ctx.Str("run_id", runID)
	}
	return ctx.Logger().Level(zerolog.DebugLevel)
}

func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Notifier logs every event: failures at error, warnings at warn, per-page
// progress at debug, everything else at info. The message is the event's
// human-readable form so the log reads like the display. Delivery is
// serialized: document workers share the writer and entries never interleave.
func Notifier(l zerolog.Logger) events.Notifier {
	return events.Synchronized(events.NotifierFunc(func(e events.Event) {
		var evt *zerolog.Event
		switch {
		case e.Kind.IsFailure():
			evt = l.Error().Err(e.Err)
		case e.Kind == events.Warning:
			evt = l.Warn()
		case e.Kind == events.PageRecognized:
			evt = l.Debug()
		default:
			evt = l.Info()
		}
		evt = evt.Str("event", e.Kind.String())
		if e.Document != "" {
			evt = evt.Str("document", e.Document)
		}
		if e.Kind == events.PageRecognized || e.Kind == events.PageFailed {
			evt = evt.Int("page", e.Page)
		}
		evt.Msg(e.String())
	}))
}
