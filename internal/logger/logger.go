// Package logger builds the zap logger shared by every component. The
// interactive console owns stdout, so log lines default to a file.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the minimum level and the output sink ("stderr",
// "stdout" or a file path).
type Options struct {
	Level  string
	Output string
}

// New returns a console-encoded logger writing to opts.Output.
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
	}
	output := opts.Output
	if output == "" {
		output = "stderr"
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil

	return cfg.Build()
}
