package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBase string `yaml:"api_base"`
	DataDir string `yaml:"data_dir"`
	LogFile string `yaml:"log_file"`
	Theme   string `yaml:"theme"`
}

func DefaultConfig() Config {
	return Config{
		APIBase: "http://localhost:8000",
		Theme:   "dusk",
	}
}

// LoadConfig reads the YAML config at path, falling back to defaults when
// the file does not exist, then applies environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	if v := os.Getenv("JOURNAL_API_BASE"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("JOURNAL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("JOURNAL_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("JOURNAL_THEME"); v != "" {
		cfg.Theme = v
	}

	if cfg.APIBase == "" {
		cfg.APIBase = "http://localhost:8000"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "journal.log")
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "journal", "config.yml")
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".journal"
	}
	return filepath.Join(base, "journal")
}

// StateDir is where the diskv-backed local state (token, draft) lives.
func (c Config) StateDir() string {
	return filepath.Join(c.DataDir, "state")
}
