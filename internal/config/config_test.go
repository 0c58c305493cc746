package config

import (
	"os"
	"path/filepath"
	"testing"
)

// scrubEnv clears every variable load consults and points the default config
// location at an empty directory.
func scrubEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DEVTAIL_OUT", "DEVTAIL_ERR", "DEVTAIL_TITLE", "DEVTAIL_THEME",
		"DEVTAIL_MAX_LINES", "DEVTAIL_POLL", "DEVTAIL_TIMESTAMPS",
		"DEVTAIL_REDACT", "DEVTAIL_CONFIG",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	scrubEnv(t)

	cfg, err := load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OutPath != DefaultOutPath || cfg.ErrPath != DefaultErrPath {
		t.Fatalf("paths = %q %q", cfg.OutPath, cfg.ErrPath)
	}
	if cfg.MaxLines != 5000 {
		t.Fatalf("MaxLines = %d, want 5000", cfg.MaxLines)
	}
	if !cfg.Poll {
		t.Fatal("Poll should default to true")
	}
	if cfg.Timestamps || cfg.Redact || cfg.ShowVersion {
		t.Fatal("bool options should default to false")
	}
	if len(cfg.Keywords.Error) == 0 {
		t.Fatal("default keywords missing")
	}
	srcs := cfg.Sources()
	if len(srcs) != 2 || srcs[0].Path != DefaultOutPath || srcs[1].Path != DefaultErrPath {
		t.Fatalf("Sources() = %+v", srcs)
	}
}

func TestFlagsBeatEnv(t *testing.T) {
	scrubEnv(t)
	t.Setenv("DEVTAIL_THEME", "dark")
	t.Setenv("DEVTAIL_MAX_LINES", "200")

	cfg, err := load([]string{"-theme", "mocha", "-max-lines", "800"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme != "mocha" {
		t.Fatalf("Theme = %q, want mocha", cfg.Theme)
	}
	if cfg.MaxLines != 800 {
		t.Fatalf("MaxLines = %d, want 800", cfg.MaxLines)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	scrubEnv(t)
	path := writeFile(t, "theme = \"dark\"\n")
	t.Setenv("DEVTAIL_THEME", "mocha")

	cfg, err := load([]string{"-config", path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme != "mocha" {
		t.Fatalf("Theme = %q, want mocha", cfg.Theme)
	}
}

func TestFileApplies(t *testing.T) {
	scrubEnv(t)
	path := writeFile(t, `
title = "api"
max_lines = 1000
poll = false

[files]
out = "/var/log/api.out"
err = "/var/log/api.err"

[keywords]
error = ["panic"]
`)

	cfg, err := load([]string{"-config", path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Title != "api" || cfg.MaxLines != 1000 || cfg.Poll {
		t.Fatalf("file values not applied: %s", cfg)
	}
	if cfg.OutPath != "/var/log/api.out" || cfg.ErrPath != "/var/log/api.err" {
		t.Fatalf("paths = %q %q", cfg.OutPath, cfg.ErrPath)
	}
	if len(cfg.Keywords.Error) != 1 || cfg.Keywords.Error[0] != "panic" {
		t.Fatalf("Keywords.Error = %v", cfg.Keywords.Error)
	}
	// lists absent from the file keep their defaults
	if len(cfg.Keywords.Warn) == 0 {
		t.Fatal("Keywords.Warn lost its default")
	}
}

func TestFileKeywordListCanDisable(t *testing.T) {
	scrubEnv(t)
	path := writeFile(t, "[keywords]\nsuccess = []\n")

	cfg, err := load([]string{"-config", path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Keywords.Success) != 0 {
		t.Fatalf("Keywords.Success = %v, want empty", cfg.Keywords.Success)
	}
}

func TestDefaultLocationFile(t *testing.T) {
	scrubEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "devtail"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "devtail", "config.toml"), []byte("title = \"xdg\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Title != "xdg" {
		t.Fatalf("Title = %q, want xdg", cfg.Title)
	}
}

func TestNamedFileMissing(t *testing.T) {
	scrubEnv(t)
	if _, err := load([]string{"-config", filepath.Join(t.TempDir(), "nope.toml")}); err == nil {
		t.Fatal("expected error for a named but missing config file")
	}
}

func TestMalformedFile(t *testing.T) {
	scrubEnv(t)
	path := writeFile(t, "title = [broken\n")
	if _, err := load([]string{"-config", path}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMaxLinesFloor(t *testing.T) {
	scrubEnv(t)
	cfg, err := load([]string{"-max-lines", "3"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxLines != 100 {
		t.Fatalf("MaxLines = %d, want floor 100", cfg.MaxLines)
	}
}
