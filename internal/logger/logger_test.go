package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogLevels(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			path := filepath.Join(dir, tt.level+".log")
			Init(Options{Level: tt.level, File: FileConfig{Path: path, MaxSizeMB: 1}})
			t.Cleanup(func() { Log = zap.NewNop() })

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read log file: %v", err)
			}
			for _, exp := range tt.expected {
				if !strings.Contains(string(content), exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(string(content), exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(zapcore.WarnLevel, &buf, FileConfig{}).Named("upload")
	log.Info("dropped")
	log.Warn("compressed upload failed", zap.String("format", "0x83F1"))
	_ = log.Sync()

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info message passed a warn-level logger")
	}
	for _, want := range []string{"compressed upload failed", "upload", "0x83F1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q lacks %q", out, want)
		}
	}
}

func TestDefaultIsNop(t *testing.T) {
	if New(zapcore.DebugLevel, nil, FileConfig{}).Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger without outputs should be a no-op")
	}
	// Package helpers must be safe before Init.
	Warn("not initialized")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("texbind.log")
	if cfg.Path != "texbind.log" || cfg.MaxSizeMB != 20 || cfg.MaxBackups != 3 || !cfg.Compress {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
