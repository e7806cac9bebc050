package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_Success(t *testing.T) {
	configPath := writeConfig(t, `port: 9090
baseUrl: "https://example.org"
timezone: "Europe/Berlin"
database:
  type: sqlite
  connectionString: ":memory:"
archive:
  url: "https://script.example.org/exec"
  timeout: 3s
gallery:
  interval: 7s
`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Port != 9090 {
		t.Errorf("Expected port to be 9090, got %d", config.Port)
	}
	if config.BaseURL != "https://example.org" {
		t.Errorf("Expected baseUrl https://example.org, got %s", config.BaseURL)
	}
	if config.Database.ConnectionString != ":memory:" {
		t.Errorf("Expected connectionString ':memory:', got '%s'", config.Database.ConnectionString)
	}
	if config.Archive.Timeout != 3*time.Second {
		t.Errorf("Expected archive timeout 3s, got %s", config.Archive.Timeout)
	}
	if config.Gallery.Interval != 7*time.Second {
		t.Errorf("Expected gallery interval 7s, got %s", config.Gallery.Interval)
	}
	if config.Location().String() != "Europe/Berlin" {
		t.Errorf("Expected Europe/Berlin location, got %s", config.Location())
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "port: 8081\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Database.Type != "sqlite" {
		t.Errorf("Expected default database type sqlite, got %s", config.Database.Type)
	}
	if config.Gallery.Interval != 5*time.Second {
		t.Errorf("Expected default gallery interval 5s, got %s", config.Gallery.Interval)
	}
	if config.BaseURL != defaultBaseURL {
		t.Errorf("Expected default base url, got %s", config.BaseURL)
	}
	if config.Archive.URL != "" {
		t.Errorf("Expected archive url to stay empty, got %s", config.Archive.URL)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown database", "database:\n  type: postgres\n"},
		{"redis without url", "database:\n  type: redis\n"},
		{"bad timezone", "timezone: Mars/Olympus\n"},
		{"gallery too fast", "gallery:\n  interval: 100ms\n"},
		{"ticket too small", "ticket:\n  width: 10\n  height: 10\n"},
		{"not yaml", "port: [unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("expected error, got config %+v", config)
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	config, err := LoadConfig("/path/that/does/not/exist/config.yaml")
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if config != nil {
		t.Error("Expected config to be nil when file doesn't exist")
	}
}

func TestLocation_ResolvedOnce(t *testing.T) {
	if got := (&ServiceConfig{}).Location(); got != time.UTC {
		t.Errorf("Expected UTC before defaults, got %s", got)
	}

	config := &ServiceConfig{Timezone: "Asia/Tokyo"}
	config.ApplyDefaults()
	loc := config.Location()
	if loc.String() != "Asia/Tokyo" {
		t.Fatalf("Expected Asia/Tokyo location, got %s", loc)
	}
	config.Timezone = "Europe/Berlin"
	if config.Location() != loc {
		t.Error("Expected the location resolved by ApplyDefaults to be reused")
	}
}
