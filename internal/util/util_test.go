package util

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	log := NewLogger("debug")
	if log == nil {
		t.Fatal("NewLogger returned nil")
	}
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug logger should enable debug level")
	}

	log = NewLogger("warn")
	if log.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("warn logger should not enable info level")
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "augur.log")
	log := NewFileLogger(path, "info")
	if log == nil {
		t.Fatal("NewFileLogger returned nil")
	}
	log.Info("hello", "k", "v")
}

// An empty log file path means stdout, not lumberjack's temp-dir fallback.
func TestNewFileLoggerEmptyPathUsesStdout(t *testing.T) {
	fallback := filepath.Join(os.TempDir(), filepath.Base(os.Args[0])+"-lumberjack.log")
	os.Remove(fallback)

	log := NewFileLogger("", "error")
	log.Error("routed to stdout")

	if _, err := os.Stat(fallback); err == nil {
		t.Errorf("empty path wrote to %s instead of stdout", fallback)
	}
}

func TestRateLimiterBurst(t *testing.T) {
	rl := NewRateLimiter(60, 3)
	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("call %d within burst should be allowed", i)
		}
	}
	if rl.Allow() {
		t.Error("call beyond burst should be denied")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(6000, 1) // 100 tokens/sec
	if !rl.Allow() {
		t.Fatal("first call should be allowed")
	}
	if rl.Allow() {
		t.Fatal("second immediate call should be denied")
	}
	time.Sleep(50 * time.Millisecond)
	if !rl.Allow() {
		t.Error("call after refill window should be allowed")
	}
}

func TestRateLimiterMinBurst(t *testing.T) {
	rl := NewRateLimiter(60, 0)
	if !rl.Allow() {
		t.Error("limiter with zero burst should still allow one call")
	}
}
