// Package logging builds the structured JSON logger shared by every component.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// TimestampField is the key carrying the event time in every log line.
const TimestampField = "ts"

// New returns a zerolog.Logger writing one JSON object per line to w.
// Timestamps are RFC3339Nano in loc.
func New(w io.Writer, loc *time.Location) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if loc == nil {
		loc = time.UTC
	}
	return zerolog.New(w).Hook(tsHook{loc: loc})
}

// Nop discards everything. Used where a logger is optional.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

type tsHook struct {
	loc *time.Location
}

func (h tsHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str(TimestampField, time.Now().In(h.loc).Format(time.RFC3339Nano))
}
