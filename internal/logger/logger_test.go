package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{Dir: dir}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { Close() })

	Warn("sync failed", "day", "2026-10-19")
	Debug("dropped at warn level")

	data, err := os.ReadFile(filepath.Join(dir, "logs", "vitalog.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "sync failed") || !strings.Contains(out, "2026-10-19") {
		t.Fatalf("log missing warn line: %q", out)
	}
	if strings.Contains(out, "dropped at warn level") {
		t.Fatal("debug line should be filtered at warn level")
	}
}

func TestInitDebugLevel(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{Dir: dir, Debug: true}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { Close() })

	Debug("store opened", "path", "mem")

	data, err := os.ReadFile(filepath.Join(dir, "logs", "vitalog.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "store opened") {
		t.Fatal("debug line missing in debug mode")
	}
}

func TestHelpersWithoutInit(t *testing.T) {
	Close()
	// Must not panic.
	Debug("a")
	Info("b")
	Warn("c")
	Error("d")
}
