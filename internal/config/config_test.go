package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/mte/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Inspector.Port != DefaultPort {
		t.Errorf("Inspector.Port = %d, want %d", cfg.Inspector.Port, DefaultPort)
	}
	if cfg.Inspector.Host != DefaultHost {
		t.Errorf("Inspector.Host = %q, want %q", cfg.Inspector.Host, DefaultHost)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Strict {
		t.Error("Strict should default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	if e := errors.FromError(err, "E300"); e.Code != "E100" {
		t.Errorf("missing config code = %q, want E100", e.Code)
	}

	configJSON := `{
  "name": "demo",
  "strict": true,
  "logLevel": "debug",
  "inspector": {
    "port": 8080,
    "replayInterval": "250ms"
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Name != "demo" || !cfg.Strict {
		t.Errorf("Name/Strict = %q/%v", cfg.Name, cfg.Strict)
	}
	if cfg.Inspector.Port != 8080 {
		t.Errorf("Inspector.Port = %d, want 8080", cfg.Inspector.Port)
	}
	if cfg.Inspector.Host != DefaultHost {
		t.Errorf("Inspector.Host = %q, want default", cfg.Inspector.Host)
	}
	if cfg.ReplayInterval() != 250*time.Millisecond {
		t.Errorf("ReplayInterval() = %v, want 250ms", cfg.ReplayInterval())
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(tmpDir)
	if err == nil || !strings.Contains(err.Error(), "E101") {
		t.Errorf("Load() error = %v, want E101", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	if err := cfg.Save(); err == nil {
		t.Error("Save() without a path should fail")
	}

	cfg.Name = "saved"
	cfg.Inspector.Port = 9090
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.Name != "saved" || loaded.Inspector.Port != 9090 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad port", func(c *Config) { c.Inspector.Port = 70000 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"upper case log level", func(c *Config) { c.LogLevel = "WARN" }, false},
		{"bad interval", func(c *Config) { c.Inspector.ReplayInterval = "soon" }, true},
		{"zero interval", func(c *Config) { c.Inspector.ReplayInterval = "0s" }, true},
		{"negative items", func(c *Config) { c.Bench.Items = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddresses(t *testing.T) {
	cfg := New()
	if got := cfg.InspectorAddress(); got != "localhost:7070" {
		t.Errorf("InspectorAddress() = %q", got)
	}
	if got := cfg.InspectorURL(); got != "http://localhost:7070/" {
		t.Errorf("InspectorURL() = %q", got)
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := New().SaveTo(filepath.Join(tmpDir, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	root, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	want, _ := filepath.Abs(tmpDir)
	if root != want {
		t.Errorf("FindProjectRoot() = %q, want %q", root, want)
	}

	cfg, err := LoadOrDefault(nested)
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Path() == "" {
		t.Error("LoadOrDefault() did not load the file")
	}
	if got := cfg.ScenariosPath(); got != filepath.Join(want, "scenarios") {
		t.Errorf("ScenariosPath() = %q", got)
	}
}
