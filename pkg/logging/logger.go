// Package logging builds the hclog loggers used by the converter.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Prefix written ahead of every human-readable log line
const Prefix = "📸 "

// NewLogger creates a new hclog logger with standard settings
func NewLogger(name string, level string, jsonFormat bool, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	// Add prefix for non-JSON output
	if !jsonFormat {
		output = NewPrefixWriter(Prefix, output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}
