// Package logging builds the structured logger used for diagnostics. All
// output goes to the writer passed in, never to stdout, so the merged command
// line stays the only thing on standard output.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	crzap "sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Levels lists the accepted --log-level values.
var Levels = []string{"debug", "info", "warn", "error"}

// New returns a logger that writes to w at the given level.
// Debug switches to the human-readable development encoder.
func New(level string, w io.Writer) (logr.Logger, error) {
	opts := crzap.Options{DestWriter: w}
	var zapLevel zapcore.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		opts.Development = true
		zapLevel = zapcore.DebugLevel
	case "info", "":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return logr.Logger{}, fmt.Errorf("unknown log level %q (expected %s)", level, strings.Join(Levels, ", "))
	}
	atomic := zap.NewAtomicLevelAt(zapLevel)
	opts.Level = &atomic
	return crzap.New(crzap.UseFlagOptions(&opts)), nil
}
