package main

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the node's resolved configuration: defaults, layered with an
// optional YAML file, layered with CLI flags (highest precedence).
type Config struct {
	HTTPPort  int    `yaml:"httpPort"`
	NetworkID uint64 `yaml:"networkId"`
	Verbosity int    `yaml:"verbosity"`

	// AccessLogPath, if non-empty, routes the RPC access log through
	// log.NewRotating, which writes to the rotated file in addition to
	// stderr. Empty disables rotation.
	AccessLogPath       string `yaml:"accessLogPath"`
	AccessLogMaxSizeMB  int    `yaml:"accessLogMaxSizeMB"`
	AccessLogMaxBackups int    `yaml:"accessLogMaxBackups"`
	AccessLogMaxAgeDays int    `yaml:"accessLogMaxAgeDays"`
}

// DefaultConfig mirrors a throwaway local devnet: anyone can point a wallet
// at it without touching flags.
func DefaultConfig() Config {
	return Config{
		HTTPPort:            8545,
		NetworkID:           1337,
		Verbosity:           3,
		AccessLogMaxSizeMB:  100,
		AccessLogMaxBackups: 5,
		AccessLogMaxAgeDays: 28,
	}
}

// LoadConfigFile reads a YAML config file and merges it onto cfg; zero
// fields in the file leave cfg's existing value untouched.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return err
	}
	if fileCfg.HTTPPort != 0 {
		cfg.HTTPPort = fileCfg.HTTPPort
	}
	if fileCfg.NetworkID != 0 {
		cfg.NetworkID = fileCfg.NetworkID
	}
	if fileCfg.Verbosity != 0 {
		cfg.Verbosity = fileCfg.Verbosity
	}
	if fileCfg.AccessLogPath != "" {
		cfg.AccessLogPath = fileCfg.AccessLogPath
	}
	if fileCfg.AccessLogMaxSizeMB != 0 {
		cfg.AccessLogMaxSizeMB = fileCfg.AccessLogMaxSizeMB
	}
	if fileCfg.AccessLogMaxBackups != 0 {
		cfg.AccessLogMaxBackups = fileCfg.AccessLogMaxBackups
	}
	if fileCfg.AccessLogMaxAgeDays != 0 {
		cfg.AccessLogMaxAgeDays = fileCfg.AccessLogMaxAgeDays
	}
	return nil
}

// verbosityToLevel maps a geth-style 0-5 verbosity scale onto slog levels.
func verbosityToLevel(v int) slog.Level {
	switch {
	case v <= 1:
		return slog.LevelError
	case v == 2:
		return slog.LevelWarn
	case v == 3:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
