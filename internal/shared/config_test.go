package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Catalogue.CSVPath != "곡순서.csv" {
			t.Errorf("expected catalogue path 곡순서.csv, got %s", config.Catalogue.CSVPath)
		}

		if !config.Catalogue.Watch {
			t.Error("expected watch enabled by default")
		}

		if config.Server.Port != 8972 {
			t.Errorf("expected server port 8972, got %d", config.Server.Port)
		}

		if config.Input.Backend != "auto" {
			t.Errorf("expected input backend auto, got %s", config.Input.Backend)
		}

		if config.Input.WindowTitle != "DJMAX RESPECT V" {
			t.Errorf("expected window title DJMAX RESPECT V, got %s", config.Input.WindowTitle)
		}

		if config.History.Path != "darlybot.db" {
			t.Errorf("expected history path darlybot.db, got %s", config.History.Path)
		}
	})

	t.Run("Addr", func(t *testing.T) {
		config := DefaultConfig()
		if got := config.Server.Addr(); got != "127.0.0.1:8972" {
			t.Errorf("expected 127.0.0.1:8972, got %s", got)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("CreateConfigFile returned error: %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig returned error: %v", err)
		}
		if config.Server.Port != 8972 {
			t.Errorf("expected port 8972 from created file, got %d", config.Server.Port)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when config file already exists")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[catalogue]
csv_path = "other.csv"
watch = false

[server]
host = "0.0.0.0"
port = 9000

[input]
backend = "simulated"
dry_run = true
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig returned error: %v", err)
		}

		if config.Catalogue.CSVPath != "other.csv" || config.Catalogue.Watch {
			t.Errorf("unexpected catalogue config: %+v", config.Catalogue)
		}
		if config.Server.Addr() != "0.0.0.0:9000" {
			t.Errorf("unexpected addr %s", config.Server.Addr())
		}
		if !config.Input.DryRun {
			t.Error("expected dry_run true")
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("LoadConfig invalid TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("not [valid"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for invalid TOML")
		}
	})
}
