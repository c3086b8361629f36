// Package config loads volatix-server's configuration: CLI flags for
// the ambient surface (port, snapshot interval, debug toggles) layered
// with an optional JSON file for the keyspace's own Options.
package config

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/volatixdb/volatix/internal/keyspace"
)

// Config is everything cmd/volatix-server needs to start serving.
type Config struct {
	Port             int
	SnapshotPath     string
	SnapshotInterval time.Duration
	AdminAddr        string
	Gops             bool
	LogDate          bool
	DotEnvPath       string
	ConfigFile       string
	User             string
	Group            string

	Keyspace keyspace.Options
}

// Default returns the configuration a bare `volatix-server` with no
// flags or config file starts with.
func Default() Config {
	return Config{
		Port:             7878,
		SnapshotPath:     "volatix.snapshot",
		SnapshotInterval: 300 * time.Second,
		AdminAddr:        ":9090",
		DotEnvPath:       ".env",
		Keyspace:         keyspace.DefaultOptions(),
	}
}

// Parse builds a Config from CLI flags, mirroring the teacher's cli.go
// style (stdlib flag, short and long names bound to the same variable).
func Parse(args []string) (Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet("volatix-server", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", cfg.Port, "TCP port to listen on")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "TCP port to listen on")
	fs.StringVar(&cfg.SnapshotPath, "snapshot-path", cfg.SnapshotPath, "path to the binary snapshot file")
	var snapshotSeconds int
	fs.IntVar(&snapshotSeconds, "s", int(cfg.SnapshotInterval.Seconds()), "snapshot interval in seconds")
	fs.IntVar(&snapshotSeconds, "snapshot-interval", int(cfg.SnapshotInterval.Seconds()), "snapshot interval in seconds")
	fs.StringVar(&cfg.ConfigFile, "c", cfg.ConfigFile, "path to an optional JSON config file")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "path to an optional JSON config file")
	fs.StringVar(&cfg.AdminAddr, "admin-addr", cfg.AdminAddr, "address for the /metrics and /healthz HTTP server")
	fs.BoolVar(&cfg.Gops, "gops", cfg.Gops, "start the gops debug agent")
	fs.BoolVar(&cfg.LogDate, "logdate", cfg.LogDate, "include timestamps in log output")
	fs.StringVar(&cfg.DotEnvPath, "dotenv", cfg.DotEnvPath, "path to a .env file loaded into the process environment")
	fs.StringVar(&cfg.User, "user", cfg.User, "drop privileges to this user after the listener is bound")
	fs.StringVar(&cfg.Group, "group", cfg.Group, "drop privileges to this group after the listener is bound")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.SnapshotInterval = time.Duration(snapshotSeconds) * time.Second

	if cfg.ConfigFile != "" {
		if err := cfg.applyFile(cfg.ConfigFile); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// fileOverlay is the JSON shape of an optional config file, validated
// against fileSchema before being applied on top of the CLI defaults.
type fileOverlay struct {
	Port                   *int    `json:"port"`
	SnapshotPath           *string `json:"snapshot_path"`
	SnapshotIntervalSecond *int    `json:"snapshot_interval_seconds"`
	GlobalTTLSeconds       *int    `json:"global_ttl_seconds"`
	MaxCapacity            *int64  `json:"max_capacity"`
	EvictionPolicy         *string `json:"eviction_policy"`
	Compression            *bool   `json:"compression"`
	CompressionThreshold   *int64  `json:"compression_threshold"`
	AdminAddr              *string `json:"admin_addr"`
}

func (cfg *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	Validate(fileSchema, raw)

	var overlay fileOverlay
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&overlay); err != nil {
		return fmt.Errorf("decoding config file: %w", err)
	}

	if overlay.Port != nil {
		cfg.Port = *overlay.Port
	}
	if overlay.SnapshotPath != nil {
		cfg.SnapshotPath = *overlay.SnapshotPath
	}
	if overlay.SnapshotIntervalSecond != nil {
		cfg.SnapshotInterval = time.Duration(*overlay.SnapshotIntervalSecond) * time.Second
	}
	if overlay.AdminAddr != nil {
		cfg.AdminAddr = *overlay.AdminAddr
	}
	if overlay.GlobalTTLSeconds != nil {
		cfg.Keyspace.GlobalTTL = time.Duration(*overlay.GlobalTTLSeconds) * time.Second
	}
	if overlay.MaxCapacity != nil {
		cfg.Keyspace.MaxCapacity = *overlay.MaxCapacity
	}
	if overlay.EvictionPolicy != nil {
		policy, err := keyspace.ParsePolicy(*overlay.EvictionPolicy)
		if err != nil {
			return err
		}
		cfg.Keyspace.EvictPolicy = policy
	}
	if overlay.Compression != nil {
		cfg.Keyspace.Compression = *overlay.Compression
	}
	if overlay.CompressionThreshold != nil {
		cfg.Keyspace.CompressionThreshold = *overlay.CompressionThreshold
	}

	return nil
}
