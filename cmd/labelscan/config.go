package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/labelscan/pkg/catalog"
	"github.com/hazyhaar/labelscan/pkg/prefs"
	"github.com/hazyhaar/labelscan/pkg/scan"
)

type recognizerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type config struct {
	Addr        string           `yaml:"addr"`
	CatalogFile string           `yaml:"catalog_file"`
	PrefsDB     string           `yaml:"prefs_db"`
	MCPAddr     string           `yaml:"mcp_addr"`
	TLSCert     string           `yaml:"tls_cert"`
	TLSKey      string           `yaml:"tls_key"`
	Recognizer  recognizerConfig `yaml:"recognizer"`
	ScanTimeout time.Duration    `yaml:"scan_timeout"`
	LogLevel    string           `yaml:"log_level"`
}

func defaultConfig() config {
	return config{
		Addr:        ":8421",
		PrefsDB:     "labelscan.db",
		ScanTimeout: scan.DefaultTimeout,
		LogLevel:    "info",
	}
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (config, bool, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, false, nil
		}
		return cfg, false, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return cfg, false, err
	}
	return cfg, true, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}

func newLogger(level string) *slog.Logger {
	lvl, _ := parseLevel(level)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// setup loads the config file named by cfgPath and returns it with a logger.
// It exits on a broken config, as every subcommand needs one.
func setup(cfgPath string) (config, *slog.Logger) {
	cfg, found, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "labelscan: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogLevel)
	if !found {
		logger.Debug("no config file, using defaults", "path", cfgPath)
	}
	return cfg, logger
}

// openScanner wires catalog, preference store and recognizer from cfg. The
// returned close func releases the preference database.
func openScanner(cfg config, logger *slog.Logger) (*scan.Scanner, *catalog.Registry, func(), error) {
	reg := catalog.NewRegistry(cfg.CatalogFile)
	if err := reg.Load(); err != nil {
		return nil, nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	cat := reg.Current()
	logger.Debug("catalog loaded", "id", cat.ID, "version", cat.Version, "categories", cat.Len(), "terms", cat.TermCount())

	store, closeStore, err := openPrefs(cfg.PrefsDB)
	if err != nil {
		return nil, nil, nil, err
	}

	var rec scan.Recognizer
	if cfg.Recognizer.Command != "" {
		rec = &scan.CommandRecognizer{Command: cfg.Recognizer.Command, Args: cfg.Recognizer.Args}
	}

	s := scan.New(scan.Config{
		Catalog:    reg,
		Prefs:      store,
		Recognizer: rec,
		Timeout:    cfg.ScanTimeout,
		Logger:     logger,
	})
	return s, reg, closeStore, nil
}

// openPrefs opens the SQLite preference database at path. An empty path
// keeps preferences in memory for the life of the process.
func openPrefs(path string) (prefs.Store, func(), error) {
	if path == "" {
		return prefs.NewMemoryStore(prefs.Preferences{}), func() {}, nil
	}
	store, err := prefs.OpenSQLite(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open preferences: %w", err)
	}
	return store, func() { store.Close() }, nil
}
