package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestGetConfigDir validates config directory access
func TestGetConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "test_config")); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	configDir := GetConfigDir()
	if configDir == "" {
		t.Fatal("Config directory should not be empty")
	}

	if _, err := os.Stat(configDir); err != nil {
		t.Errorf("Config directory should exist: %v", err)
	}
}

func TestGetSessionPath(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	want := filepath.Join(tempDir, "session")
	if got := GetSessionPath(); got != want {
		t.Errorf("Expected session path %s, got %s", want, got)
	}
}

// TestInitWithCustomPath validates custom config path
func TestInitWithCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	customConfigPath := filepath.Join(tempDir, "custom", "path", "config.toml")

	if err := Init(customConfigPath); err != nil {
		t.Fatalf("Failed to initialize with custom path: %v", err)
	}

	configDir := GetConfigDir()
	expectedDir := filepath.Join(tempDir, "custom", "path")

	if configDir != expectedDir {
		t.Errorf("Expected config dir %s, got %s", expectedDir, configDir)
	}
}

func TestDefaults(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	tests := []struct {
		key  string
		want interface{}
	}{
		{"api.base_url", "http://localhost:8080"},
		{"output.format", "text"},
		{"api.timeout", 30},
		{"feed.page_size", 9},
		{"notifications.poll_interval", 15},
	}

	for _, tt := range tests {
		switch want := tt.want.(type) {
		case string:
			if got := GetString(tt.key); got != want {
				t.Errorf("%s: got %q, want %q", tt.key, got, want)
			}
		case int:
			if got := GetInt(tt.key); got != want {
				t.Errorf("%s: got %d, want %d", tt.key, got, want)
			}
		}
	}

	if got := GetSeconds("api.timeout"); got != 30*time.Second {
		t.Errorf("api.timeout as duration: got %v", got)
	}
}

func TestUserConfigOverridesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.toml")
	content := "[api]\nbase_url = \"http://blogs.internal:9090\"\n\n[feed]\npage_size = 12\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if got := GetString("api.base_url"); got != "http://blogs.internal:9090" {
		t.Errorf("base_url: got %q", got)
	}
	if got := GetInt("feed.page_size"); got != 12 {
		t.Errorf("page_size: got %d", got)
	}
	if got := GetString("output.format"); got != "text" {
		t.Errorf("untouched default lost: got %q", got)
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("PENFOLIO_API_BASE_URL", "http://env.example:8081")

	if err := Init(filepath.Join(t.TempDir(), "config.toml")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if got := GetString("api.base_url"); got != "http://env.example:8081" {
		t.Errorf("env override ignored: got %q", got)
	}
}

func TestSetStringPersists(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.toml")
	if err := Init(path); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if err := SetString("output.format", "json"); err != nil {
		t.Fatalf("SetString: %v", err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	if got := GetString("output.format"); got != "json" {
		t.Errorf("persisted format: got %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := expandPath("~/logs/cli.log"); got != filepath.Join(home, "logs/cli.log") {
		t.Errorf("expandPath: got %q", got)
	}
	if got := expandPath("/var/log/cli.log"); got != "/var/log/cli.log" {
		t.Errorf("absolute path changed: got %q", got)
	}
}
