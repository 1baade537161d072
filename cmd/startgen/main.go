// Command startgen paints a world, lays out fair starts for majors and
// city-states, and optionally stores the layout in SQLite. With -serve it
// keeps running and exposes stored layouts over HTTP.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/invopop/jsonschema"

	"github.com/talgya/startlayout/internal/api"
	"github.com/talgya/startlayout/internal/entropy"
	"github.com/talgya/startlayout/internal/persistence"
	"github.com/talgya/startlayout/internal/regions"
	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

// layoutConfig is everything one generation needs besides its seed.
type layoutConfig struct {
	rules   *ruleset.Ruleset
	world   world.GenConfig
	opts    ruleset.Options
	majors  int
	minors  int
	verbose bool // log every start
}

func main() {
	var (
		seed       = flag.Int64("seed", envInt64OrDefault("STARTGEN_SEED", 0), "random seed (0 = random)")
		dbPath     = flag.String("db", envOrDefault("STARTGEN_DB", ""), "SQLite file to store the layout in")
		rulesPath  = flag.String("ruleset", envOrDefault("STARTGEN_RULESET", ""), "ruleset JSON (default: built-in)")
		schemaPath = flag.String("schema", "", "write the ruleset JSON schema here and exit")
		width      = flag.Int("width", 0, "map columns (default from world config)")
		height     = flag.Int("height", 0, "map rows (default from world config)")
		majors     = flag.Int("majors", 6, "number of major nations")
		minors     = flag.Int("minors", 8, "number of city-states")
		legendary  = flag.Bool("legendary", false, "legendary start: extra food around majors")
		balance    = flag.Bool("balance", false, "strategic balance: guarantee key strategics near majors")
		noBias     = flag.Bool("no-bias", false, "ignore nation start preferences")
		servePort  = flag.Int("serve", int(envInt64OrDefault("STARTGEN_PORT", 0)), "serve stored layouts on this port (requires -db)")
		verbose    = flag.Bool("v", false, "debug logging and one line per start")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if *schemaPath != "" {
		if err := writeSchema(*schemaPath, ruleset.Schema()); err != nil {
			slog.Error("failed to write schema", "error", err)
			os.Exit(1)
		}
		slog.Info("schema written", "path", *schemaPath)
		return
	}

	// ── Ruleset ───────────────────────────────────────────────────────
	rules := ruleset.Default()
	if *rulesPath != "" {
		var err error
		rules, err = ruleset.Load(*rulesPath)
		if err != nil {
			slog.Error("failed to load ruleset", "path", *rulesPath, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("ruleset ready", "ruleset", rules.String())

	cfg := layoutConfig{
		rules:   rules,
		world:   world.DefaultGenConfig(),
		opts:    ruleset.DefaultOptions(),
		majors:  *majors,
		minors:  *minors,
		verbose: *verbose,
	}
	if *width > 0 {
		cfg.world.Width = *width
	}
	if *height > 0 {
		cfg.world.Height = *height
	}
	cfg.opts.WorldWrap = cfg.world.WorldWrap
	cfg.opts.LegendaryStart = *legendary
	cfg.opts.StrategicBalance = *balance
	cfg.opts.NoStartBias = *noBias

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	if *dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
			slog.Error("failed to create database directory", "error", err)
			os.Exit(1)
		}
		var err error
		db, err = persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	} else if *servePort > 0 {
		slog.Error("-serve needs a database (-db or STARTGEN_DB)")
		os.Exit(1)
	}

	// ── Start Layout ──────────────────────────────────────────────────
	m, res, usedSeed, err := generate(cfg, *seed)
	if err != nil {
		slog.Error("start layout failed", "seed", usedSeed, "error", err)
		os.Exit(1)
	}
	if db != nil {
		runID, err := db.SaveLayout(m, res, usedSeed)
		if err != nil {
			slog.Error("failed to save layout", "error", err)
			os.Exit(1)
		}
		slog.Info("layout stored", "run", runID, "path", *dbPath)
	}

	if *servePort == 0 {
		return
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	cfg.verbose = false
	srv := &api.Server{
		DB:             db,
		Port:           *servePort,
		AdminKey:       os.Getenv("STARTGEN_ADMIN_KEY"),
		GenerateCost:   cfg.world.Width * cfg.world.Height,
		GenerateBudget: int(envInt64OrDefault("STARTGEN_GENERATE_BUDGET", 0)),
		Generate: func(seed int64) (string, error) {
			m, res, usedSeed, err := generate(cfg, seed)
			if err != nil {
				return "", err
			}
			return db.SaveLayout(m, res, usedSeed)
		},
	}
	srv.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
}

// generate paints a world and lays out its starts. A zero seed draws a fresh
// one; the seed actually used is returned either way.
func generate(cfg layoutConfig, seed int64) (*world.Map, *regions.Result, int64, error) {
	if seed == 0 {
		seed = entropy.CryptoSeed()
	}

	wc := cfg.world
	wc.Seed = seed
	slog.Info("generating world map...", "seed", seed, "width", wc.Width, "height", wc.Height)
	m := world.Generate(wc, cfg.rules)

	land := 0
	for name, count := range world.TerrainCounts(m) {
		if def := cfg.rules.Terrain(name); def != nil && def.Type == ruleset.Land {
			land += count
		}
		slog.Debug("terrain", "type", name, "count", count)
	}
	slog.Info("world map ready",
		"tiles", humanize.Comma(int64(m.TileCount())),
		"land", humanize.Comma(int64(land)),
		"continents", len(world.ContinentSizes(m)),
	)

	nations := append(cfg.rules.Majors(cfg.majors), cfg.rules.CityStates(cfg.minors)...)
	res, err := regions.Generate(m, nations, cfg.opts, entropy.New(seed))
	if err != nil {
		return nil, nil, seed, fmt.Errorf("seed %d: %w", seed, err)
	}

	if cfg.verbose {
		for _, a := range res.Majors {
			slog.Info("major start", "nation", a.Nation.Name, "coord", a.Start, "region", a.Region.Type, "luxury", a.Region.Luxury)
		}
		for _, a := range res.Minors {
			slog.Info("city-state start", "nation", a.Nation.Name, "coord", a.Start)
		}
	}
	slog.Info("resources placed",
		"luxuries", humanize.Comma(int64(res.Stats.Luxuries)),
		"strategics", humanize.Comma(int64(res.Stats.Strategics)),
		"bonuses", humanize.Comma(int64(res.Stats.Bonuses)),
		"city_state_luxuries", res.CityStateLuxuries,
	)
	return m, res, seed, nil
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt64OrDefault(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}
