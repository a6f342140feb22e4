package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Format.IndentSize != 4 || c.Format.BraceStyle != "K&R" {
		t.Errorf("unexpected format defaults %+v", c.Format)
	}
	if c.Store.Path == "" || c.Log.Level != "info" {
		t.Errorf("unexpected defaults %+v", c)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	c := Default()
	c.Format.IndentStyle = "tabs"
	c.Format.BraceStyle = "Allman"
	c.Format.ParenthesizeAll = true
	c.Store.Path = "db/trees.db"
	c.Log.Level = "debug"
	c.Log.Development = true

	if err := c.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Format != c.Format {
		t.Errorf("format mismatch: expected %+v, got %+v", c.Format, loaded.Format)
	}
	if loaded.Log != c.Log {
		t.Errorf("log mismatch: expected %+v, got %+v", c.Log, loaded.Log)
	}
	if loaded.Store.Path != "db/trees.db" {
		t.Errorf("store path rewritten on load: %q", loaded.Store.Path)
	}
	if expected := filepath.Join(dir, "db", "trees.db"); loaded.StorePath() != expected {
		t.Errorf("expected store path %q, got %q", expected, loaded.StorePath())
	}
}

func TestLoadSaveKeepsRelativeStorePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := Default().Save(path); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		c, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if c.Store.Path != ".jack/trees.db" {
			t.Fatalf("round %d: expected relative path, got %q", i, c.Store.Path)
		}
		if err := c.Save(path); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	if got := Default().StorePath(); got != ".jack/trees.db" {
		t.Errorf("default config should not resolve against a directory, got %q", got)
	}
	abs := &Config{Store: StoreConfig{Path: filepath.Join(dir, "abs.db")}, dir: "/elsewhere"}
	if got := abs.StorePath(); got != filepath.Join(dir, "abs.db") {
		t.Errorf("absolute path changed: %q", got)
	}
}

func TestLoadRejectsNegativeIndent(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("[format]\nindent_size = -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "indent_size") {
		t.Errorf("error does not name the field: %v", err)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := "[format]\nindent_size = 2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Format.IndentSize != 2 {
		t.Errorf("expected indent size 2, got %d", c.Format.IndentSize)
	}
	if c.Format.IndentStyle != "spaces" || !c.Format.SpaceAroundOps || c.Log.Level != "info" {
		t.Errorf("defaults not kept: %+v", c)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte("[format\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(root, ConfigFileName)
	if err := Default().Save(configPath); err != nil {
		t.Fatal(err)
	}

	file := filepath.Join(nested, "Main.json")
	if err := os.WriteFile(file, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, start := range []string{nested, file, root} {
		got := Find(start)
		expected, _ := filepath.Abs(configPath)
		if got != expected {
			t.Errorf("Find(%s): expected %q, got %q", start, expected, got)
		}
	}

	if got := Find(filepath.Join(root, "does-not-exist")); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}

	c, path, err := LoadOrDefault(nested)
	if err != nil || path == "" || c == nil {
		t.Errorf("LoadOrDefault: %v, %q", err, path)
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := LogConfig{Level: "warn"}.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error should be enabled at warn level")
	}

	if _, err := (LogConfig{Level: "loud"}).NewLogger(); err == nil {
		t.Error("expected error for invalid level")
	}
}
