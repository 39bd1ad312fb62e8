// Package config loads the TOML configuration file, writing defaults on
// first run.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/dori/zenith/internal/storage"
)

const DefaultConfigFileName = "config.toml"

type Config struct {
	DataDir          string `toml:"data_dir"`
	DBPath           string `toml:"db_path"`
	Theme            string `toml:"theme"`
	Notifications    bool   `toml:"notifications"`
	PollIntervalSecs int    `toml:"poll_interval_secs"`
}

// PollInterval returns the reminder polling interval.
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.PollIntervalSecs) * time.Second
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(home, ".config", "zenith", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults first when
// the file does not exist yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DataDir == "" {
		cfg.DataDir = storage.DefaultDataDir()
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "zenith.db")
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	dataDir := storage.DefaultDataDir()
	return Config{
		DataDir:          dataDir,
		DBPath:           filepath.Join(dataDir, "zenith.db"),
		Theme:            "nord",
		Notifications:    true,
		PollIntervalSecs: 60,
	}
}
