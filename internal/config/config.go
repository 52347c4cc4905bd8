// Package config handles TOML-based configuration loading and
// validation. Passwords never live here; the config names accounts and
// the OS keyring holds their secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Account names a site login whose password is stored in the keyring.
type Account struct {
	Username string `toml:"username"`
}

// VierAccount additionally carries the content-API token. Both fields
// are optional; without them vier pages extract anonymously.
type VierAccount struct {
	Username string `toml:"username"`
	APIToken string `toml:"api_token"`
}

// Accounts groups the per-site logins.
type Accounts struct {
	VrtNU Account     `toml:"vrtnu"`
	Vier  VierAccount `toml:"vier"`
}

// Config holds all application configuration.
type Config struct {
	Player       string   `toml:"player"`
	Quality      string   `toml:"quality"`
	SubsLanguage string   `toml:"subs_language"`
	DownloadDir  string   `toml:"download_dir"`
	UserAgent    string   `toml:"user_agent"`
	MaxPages     int      `toml:"max_pages"`
	History      bool     `toml:"history"`
	Debug        bool     `toml:"debug"`
	Accounts     Accounts `toml:"accounts"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Player:       "mpv",
		Quality:      "best",
		SubsLanguage: "nl",
		DownloadDir:  "~/Videos/zender",
		MaxPages:     50,
		History:      true,
		Debug:        false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "zender"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "zender"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validPlayers := map[string]bool{
		"mpv": true, "vlc": true, "iina": true, "celluloid": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: mpv, vlc, iina, celluloid)", c.Player)
	}

	validQualities := map[string]bool{
		"best": true, "worst": true,
		"360": true, "480": true, "720": true, "1080": true,
	}
	if !validQualities[strings.ToLower(c.Quality)] {
		return fmt.Errorf("unsupported quality %q (valid: best, worst, 360, 480, 720, 1080)", c.Quality)
	}

	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be at least 1, got %d", c.MaxPages)
	}

	if c.SubsLanguage == "" {
		return fmt.Errorf("subs_language cannot be empty")
	}

	return nil
}

// ExpandDownloadDir resolves ~ in the download directory path.
func (c *Config) ExpandDownloadDir() (string, error) {
	dir := c.DownloadDir
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}

// HistoryPath returns the path to the watch-history database.
func HistoryPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "zender", "history.db"), nil
}
