package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestPrefixWriter(t *testing.T) {
	tests := []struct {
		name   string
		writes []string
		want   string
	}{
		{"single line", []string{"hello\n"}, "> hello\n"},
		{"two lines one write", []string{"a\nb\n"}, "> a\n> b\n"},
		{"split line", []string{"hel", "lo\n"}, "> hello\n"},
		{"incomplete line held", []string{"a\npartial"}, "> a\n"},
		{"empty line", []string{"\n"}, "> \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			pw := NewPrefixWriter("> ", &out)

			for _, w := range tt.writes {
				n, err := pw.Write([]byte(w))
				if err != nil {
					t.Fatalf("Write: %v", err)
				}
				if n != len(w) {
					t.Errorf("Write returned %d, want %d", n, len(w))
				}
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestPrefixWriterFlush(t *testing.T) {
	var out bytes.Buffer
	pw := NewPrefixWriter("> ", &out)

	if _, err := pw.Write([]byte("tail")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := pw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := pw.Flush(); err != nil {
		t.Fatalf("second Flush: %v", err)
	}

	if out.String() != "> tail" {
		t.Errorf("output = %q, want %q", out.String(), "> tail")
	}
}

func TestNewLoggerPrefixesLines(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger("mmconvert", "info", false, &out)

	logger.Info("converted", "slot", 1)
	logger.Debug("hidden")

	got := out.String()
	if !strings.HasPrefix(got, Prefix) {
		t.Errorf("output %q does not start with prefix", got)
	}
	if !strings.Contains(got, "converted") || !strings.Contains(got, "slot=1") {
		t.Errorf("output %q missing message fields", got)
	}
	if strings.Contains(got, "hidden") {
		t.Errorf("debug line emitted at info level: %q", got)
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger("mmconvert", "debug", true, &out)

	logger.Debug("payload", "size", 10)

	got := out.String()
	if strings.HasPrefix(got, Prefix) {
		t.Errorf("JSON output should not be prefixed: %q", got)
	}
	if !strings.Contains(got, `"@message":"payload"`) {
		t.Errorf("output %q is not hclog JSON", got)
	}
	if logger.GetLevel() != hclog.Debug {
		t.Errorf("level = %v, want debug", logger.GetLevel())
	}
}
