// Package cli implements the boxtree command-line interface.
//
// # Commands
//
//   - layout: compute a layout and write it as JSON
//   - render: write SVG, PNG, JSON, DOT or Graphviz output
//   - preview: browse a layout in the terminal
//   - serve: run the HTTP server
//   - cache: inspect and clear the layout cache
//   - config: show or initialize the settings file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces the measure, layout, render and cache events of the pipeline.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of a step with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond, and any
// extra key/value pairs.
func (p *progress) done(msg string, kv ...any) {
	kv = append(kv, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, kv...)
}
