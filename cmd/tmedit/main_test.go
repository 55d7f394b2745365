package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tilekit/tilemap/internal/config"
	"github.com/tilekit/tilemap/internal/mapfile"
)

func write(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRun_CreatesEditsAndSaves(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tmedit.toml")
	write(t, cfgPath, `
[logging]
level = "error"
format = "json"

[map]
name = "town"
width = 3
height = 2
layers = 1
`)
	t.Setenv("TMEDIT_CONFIG", cfgPath)

	script := filepath.Join(dir, "edit.lua")
	write(t, script, `
map.set_tile(1, 1, 1, 4, 0)
function on_save() map.set_property("edited", true) end
`)
	csv := filepath.Join(dir, "ground.csv")
	write(t, csv, "1,1,1\n2,-1,2\n")

	mapPath := filepath.Join(dir, "town.json")
	if err := run([]string{mapPath, script, csv}); err != nil {
		t.Fatalf("run: %v", err)
	}

	opts, err := mapfile.Load(mapPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.Name != "town" || len(opts.Layers) != 2 || opts.Layers[1].Name != "ground" {
		t.Fatalf("saved map = %+v", opts)
	}
	if got := opts.Layers[0].Tiles[4]; got.TileID != 4 {
		t.Errorf("edited tile = %+v", got)
	}
	if n := len(opts.Properties); n != 1 || opts.Properties[0].Key != "edited" {
		t.Errorf("properties = %+v, want the on_save flag", opts.Properties)
	}

	// A second run opens the saved file instead of creating one.
	if err := run([]string{mapPath}); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMEDIT_CONFIG", filepath.Join(dir, "missing.toml"))

	if err := run(nil); err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("run(nil) = %v", err)
	}
	if err := run([]string{filepath.Join(dir, "m.tmx")}); !errors.Is(err, mapfile.ErrFormat) {
		t.Errorf("run(.tmx) = %v, want ErrFormat", err)
	}
	mapPath := filepath.Join(dir, "m.json")
	if err := run([]string{mapPath, "notes.txt"}); err == nil {
		t.Error("unknown argument accepted")
	}
	wide := filepath.Join(dir, "wide.csv")
	write(t, wide, strings.Repeat("1,", 40)+"1\n")
	if err := run([]string{mapPath, wide}); err == nil || !strings.Contains(err.Error(), "map is 32x32") {
		t.Errorf("mismatched csv = %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	for _, cfg := range []config.LoggingConfig{
		{Level: "debug", Format: "json"},
		{Level: "nonsense", Format: "console"},
	} {
		log, err := newLogger(cfg)
		if err != nil {
			t.Fatalf("newLogger(%+v): %v", cfg, err)
		}
		log.Debug("ok")
	}
}
