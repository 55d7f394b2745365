package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tilekit/tilemap/internal/config"
	"github.com/tilekit/tilemap/internal/mapfile"
	"github.com/tilekit/tilemap/internal/scripting"
	"github.com/tilekit/tilemap/internal/tilemap"
)

const usage = "usage: tmedit <map.json|map.yaml> [script.lua|layer.csv ...]"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Output helpers ────────────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Editing session ───────────────────────────────────────────────

func run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	mapPath := args[0]

	// 1. Load config; a missing file means defaults
	cfgPath := "config/tmedit.toml"
	if p := os.Getenv("TMEDIT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Open the map, or start a new one from [map]
	m, err := mapfile.Open(mapPath, log)
	if errors.Is(err, fs.ErrNotExist) {
		m, err = tilemap.New(cfg.Map.NewMap(), log)
		if err != nil {
			return fmt.Errorf("new map: %w", err)
		}
		printOK(fmt.Sprintf("new map %s (%dx%d)", m.Name, m.Width(), m.Height()))
	} else if err != nil {
		return err
	} else {
		printOK(fmt.Sprintf("opened %s (%dx%d, %d layers)", mapPath, m.Width(), m.Height(), m.Layers().Len()))
	}

	// 4. Apply scripts and layer imports
	engine := scripting.NewEngine(m, log)
	defer engine.Close()

	if cfg.Scripting.Dir != "" {
		if err := engine.LoadDir(cfg.Scripting.Dir); err != nil {
			return fmt.Errorf("load scripts: %w", err)
		}
	}
	for _, arg := range args[1:] {
		switch strings.ToLower(filepath.Ext(arg)) {
		case ".lua":
			if err := engine.DoFile(arg); err != nil {
				return err
			}
		case ".csv":
			if err := importLayer(m, arg); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s: %s", arg, usage)
		}
	}
	if _, err := engine.RunHook("on_save"); err != nil {
		return err
	}

	// 5. Report and save
	changes := m.TakeDataBuffer()
	report(log, changes)
	if err := mapfile.Save(mapPath, m); err != nil {
		return err
	}
	log.Info("map saved", zap.String("path", mapPath), zap.Int("changes", len(changes)))
	return nil
}

func importLayer(m *tilemap.TileMap, path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	w, h, opts, err := mapfile.ImportCSV(path, name, 0)
	if err != nil {
		return err
	}
	if w != m.Width() || h != m.Height() {
		return fmt.Errorf("import %s: layer is %dx%d, map is %dx%d", path, w, h, m.Width(), m.Height())
	}
	if _, err := m.CreateLayer(opts); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	printOK("imported layer " + name)
	return nil
}

func report(log *zap.Logger, changes []tilemap.Change) {
	counts := make(map[tilemap.Origin]int)
	for _, c := range changes {
		counts[c.Origin]++
		if ce := log.Check(zapcore.DebugLevel, "change"); ce != nil {
			raw, err := json.Marshal(c)
			if err != nil {
				log.Warn("encode change", zap.Error(err))
				continue
			}
			ce.Write(zap.ByteString("entry", raw))
		}
	}
	printSection("changes")
	for _, o := range []tilemap.Origin{tilemap.OriginMap, tilemap.OriginLayer, tilemap.OriginObject, tilemap.OriginTileset} {
		printStat(o.String(), counts[o])
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
