package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tmedit.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "debug"

[map]
width = 8
layers = 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Map.Width != 8 || cfg.Map.Height != 32 || cfg.Map.Layers != 3 {
		t.Errorf("map = %+v", cfg.Map)
	}

	opts := cfg.Map.NewMap()
	if len(opts.Layers) != 3 || opts.Layers[2].Name != "Layer 3" {
		t.Errorf("NewMap layers = %+v", opts.Layers)
	}
	if opts.Width != 8 || opts.Name != "Tilemap" {
		t.Errorf("NewMap = %+v", opts)
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: %v, want fs.ErrNotExist", err)
	}

	cases := map[string]string{
		"[map\n":                   "parse config",
		"[map]\nwidth = 0\n":       "must be positive",
		"[map]\nlayers = -1\n":     "must not be negative",
		"[map]\nwidth = \"big\"\n": "parse config",
	}
	for body, want := range cases {
		_, err := Load(writeConfig(t, body))
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("Load(%q) = %v, want %q", body, err, want)
		}
	}
}
