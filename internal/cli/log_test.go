package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("clip") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("clip") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("clip") }, true},
		{"warn at error", log.ErrorLevel, func(l *log.Logger) { l.Warn("clip") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"debug", log.DebugLevel, false},
		{" INFO ", log.InfoLevel, false},
		{"warning", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"loud", log.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConfigureLogging(t *testing.T) {
	t.Setenv(envLogLevel, "")
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.verbose = true
	if err := c.configureLogging(); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("verbose level = %v, want debug", c.Logger.GetLevel())
	}

	t.Setenv(envLogLevel, "error")
	if err := c.configureLogging(); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != log.ErrorLevel {
		t.Errorf("env level = %v, want error", c.Logger.GetLevel())
	}

	t.Setenv(envLogLevel, "chatty")
	if err := c.configureLogging(); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Generated 3 clips")

	out := buf.String()
	if !strings.Contains(out, "Generated 3 clips") || !strings.Contains(out, "took=") {
		t.Errorf("progress output = %q", out)
	}
}
