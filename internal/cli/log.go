// Package cli implements the screenflow command-line interface.
//
// # Commands
//
//   - scan: extract the flow graph of a document page as JSON
//   - layout: position a scanned flow graph
//   - render: run the whole pipeline and write svg, png, pdf or json files
//   - inspect: browse screens and transitions interactively
//   - tiers: list feature tiers
//   - serve: run the HTTP API
//   - cache: inspect and clear the local cache
//
// # Configuration
//
// Defaults come from $XDG_CONFIG_HOME/screenflow/config.toml (or --config),
// then SCREENFLOW_* environment variables, then flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels in the command's context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a timestamped logger ("14:32:01.45") writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a step took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts timing a step.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Scanned 12 screens (4ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
