package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{
			name:   "text format with info level",
			config: Config{Level: slog.LevelInfo, Format: FormatText},
			want:   "level=INFO",
		},
		{
			name:   "JSON format with debug level",
			config: Config{Level: slog.LevelDebug, Format: FormatJSON},
			want:   `"level":"INFO"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.config.Output = &buf

			NewLogger(tt.config).Info("test message")

			output := buf.String()
			if !strings.Contains(output, tt.want) {
				t.Errorf("NewLogger() output = %v, want to contain %v", output, tt.want)
			}
			if strings.Contains(output, "time=") || strings.Contains(output, `"time"`) {
				t.Errorf("NewLogger() without AddTime should omit time, got %v", output)
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		debugShown bool
		infoShown  bool
		errorShown bool
	}{
		{"info", slog.LevelInfo, false, true, true},
		{"debug", slog.LevelDebug, true, true, true},
		{"error", slog.LevelError, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(Config{Level: tt.level, Output: &buf})

			logger.Debug("debug message")
			logger.Info("info message")
			logger.Error("error message")

			output := buf.String()
			if got := strings.Contains(output, "debug message"); got != tt.debugShown {
				t.Errorf("debug visibility = %v, want %v", got, tt.debugShown)
			}
			if got := strings.Contains(output, "info message"); got != tt.infoShown {
				t.Errorf("info visibility = %v, want %v", got, tt.infoShown)
			}
			if got := strings.Contains(output, "error message"); got != tt.errorShown {
				t.Errorf("error visibility = %v, want %v", got, tt.errorShown)
			}
		})
	}
}

func TestSetLevelReachesDerivedLoggers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: slog.LevelError, Output: &buf})
	session := logger.With("session", "abc")

	session.Debug("hidden")
	logger.SetLevel(slog.LevelDebug)
	session.Debug("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("message logged before SetLevel should be dropped, got %s", output)
	}
	if !strings.Contains(output, "shown") || !strings.Contains(output, "session=abc") {
		t.Errorf("derived logger should follow the new level, got %s", output)
	}
}

func TestLoggerWithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: slog.LevelInfo, Output: &buf})

	logger.WithGroup("keymap").Info("loaded", "count", 3)

	if output := buf.String(); !strings.Contains(output, "keymap.count=3") {
		t.Errorf("WithGroup() output should contain grouped attributes, got: %s", output)
	}
}

func TestDisabledLogger(t *testing.T) {
	logger := NewDisabledLogger()
	logger.Error("nothing to see")
	logger.With("a", 1).Debug("still nothing")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"loud":    slog.LevelWarn,
	}
	for input, want := range tests {
		if got := ParseLevel(input, slog.LevelWarn); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestFileLoggerFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	t.Setenv(EnvDebugFile, path)
	t.Setenv(EnvDebugLevel, "debug")

	if got := GetDebugFilePath("ignored.log"); got != path {
		t.Fatalf("GetDebugFilePath() = %s, want %s", got, path)
	}

	NewFileLoggerFromEnv("ignored.log").Debug("key resolved", "key", "ctrl+w")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading debug file: %v", err)
	}
	if !strings.Contains(string(data), "key=ctrl+w") {
		t.Errorf("debug file should contain the record, got %s", data)
	}
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	var buf bytes.Buffer
	SetGlobalLogger(NewLogger(Config{Level: slog.LevelInfo, Output: &buf}))

	Info("global info")
	NewComponentLogger("terminal").Warn("resize")
	LogError(GetGlobalLogger(), "render failed", errors.New("boom"), "frame", 2)

	output := buf.String()
	for _, want := range []string{"global info", "component=terminal", "error=boom", "frame=2"} {
		if !strings.Contains(output, want) {
			t.Errorf("global output should contain %q, got: %s", want, output)
		}
	}
}
