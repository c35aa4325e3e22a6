package dotconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/instantdots/instantdots/internal/doterr"
)

// DefaultConfigFileName is the expected name of the configuration file.
const DefaultConfigFileName = "instant.toml"

// GetDefaultConfigPath resolves $XDG_CONFIG_HOME/instantdots/instant.toml,
// falling back to ~/.config/instantdots/instant.toml.
func GetDefaultConfigPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, "instantdots", DefaultConfigFileName), nil
}

// GetDefaultDataDir resolves $XDG_DATA_HOME/instantdots, falling back to
// ~/.local/share/instantdots.
func GetDefaultDataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "instantdots"), nil
}

// Load reads the config at path (or the default path if empty). If the
// file does not exist, it is created with defaults and the defaults are
// returned, matching spec §4.1's "load(path?) -> Config" contract.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetDefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := Save(cfg, path); err != nil {
			return nil, fmt.Errorf("creating default config at %s: %w", path, err)
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", doterr.ErrConfigInvalid, path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", doterr.ErrConfigInvalid, err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.CloneDepth == 0 {
		cfg.CloneDepth = 1
	}
	if cfg.HashCleanupDays == 0 {
		cfg.HashCleanupDays = 30
	}
}

func validate(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Repos))
	for _, r := range cfg.Repos {
		if r.Name == "" {
			return fmt.Errorf("repo entry has empty name")
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: %s", doterr.ErrDuplicateRepo, r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

// Save atomically persists cfg to path (or the default path if empty),
// via write-to-temp + rename (teacher's habit throughout internal/config).
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := GetDefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".instant-tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp config file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	enc := toml.NewEncoder(tmp)
	if err := enc.Encode(cfg); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming config into place: %w", err)
	}
	return nil
}
