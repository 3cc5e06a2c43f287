package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Catalogue CatalogueConfig `toml:"catalogue"`
	Server    ServerConfig    `toml:"server"`
	Input     InputConfig     `toml:"input"`
	History   HistoryConfig   `toml:"history"`
}

// CatalogueConfig controls where the song order CSV is read from and whether
// the bridge reloads it when the file changes.
type CatalogueConfig struct {
	CSVPath    string `toml:"csv_path"`
	Watch      bool   `toml:"watch"`
	DebounceMs int    `toml:"debounce_ms"`
}

// ServerConfig contains HTTP bridge settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

// InputConfig selects and tunes the key-press backend.
//
// Backend is one of "auto", "simulated" or "script". The script backend runs
// Command once per action with the action's key name as argument.
type InputConfig struct {
	Backend     string `toml:"backend"`
	Command     string `toml:"command"`
	WindowTitle string `toml:"window_title"`
	KeyDelayMs  int    `toml:"key_delay_ms"`
	StepDelayMs int    `toml:"step_delay_ms"`
	PressEnter  bool   `toml:"press_enter"`
	DryRun      bool   `toml:"dry_run"`
}

// HistoryConfig contains selection-history database settings.
type HistoryConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Addr returns the host:port pair the bridge server binds to.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
