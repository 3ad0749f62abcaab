package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	// Should not be empty
	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	// Should contain "webled"
	if !strings.Contains(configDir, "webled") {
		t.Errorf("GetConfigDir() = %v, should contain 'webled'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	// Should end with config.yaml
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}

	t.Logf("Config path: %s", configPath)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Server.WSPort != DefaultWSPort {
		t.Errorf("Load() missing file WSPort = %v, want default %v", s.Server.WSPort, DefaultWSPort)
	}
	if s.Auth.OnFailure != AuthFailurePrompt {
		t.Errorf("Load() missing file OnFailure = %q, want %q", s.Auth.OnFailure, AuthFailurePrompt)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	s := NewSettings()
	s.Server.Host = "127.0.0.1"
	s.Server.HTTPPort = 8000
	s.Server.WSPort = 8266
	s.Auth.Password = "hunter2"
	s.Auth.OnFailure = AuthFailureDisconnect
	s.Limits.MaxLineLength = 512
	s.Discovery.Announce = true
	s.Discovery.Instance = "bench-led"

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Server.Host != "127.0.0.1" {
		t.Errorf("loaded Host = %q, want %q", loaded.Server.Host, "127.0.0.1")
	}
	if loaded.Server.HTTPPort != 8000 {
		t.Errorf("loaded HTTPPort = %v, want 8000", loaded.Server.HTTPPort)
	}
	if loaded.Server.WSPort != 8266 {
		t.Errorf("loaded WSPort = %v, want 8266", loaded.Server.WSPort)
	}
	if loaded.Auth.Password != "hunter2" {
		t.Errorf("loaded Password = %q, want %q", loaded.Auth.Password, "hunter2")
	}
	if loaded.Auth.OnFailure != AuthFailureDisconnect {
		t.Errorf("loaded OnFailure = %q, want %q", loaded.Auth.OnFailure, AuthFailureDisconnect)
	}
	if loaded.Limits.MaxLineLength != 512 {
		t.Errorf("loaded MaxLineLength = %v, want 512", loaded.Limits.MaxLineLength)
	}
	if !loaded.Discovery.Announce {
		t.Error("loaded Announce = false, want true")
	}
	if loaded.Discovery.Instance != "bench-led" {
		t.Errorf("loaded Instance = %q, want %q", loaded.Discovery.Instance, "bench-led")
	}

	// Saved file carries the header comment
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# webled Configuration File") {
		t.Error("saved file missing header comment")
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	partial := "version: 1\nserver:\n  ws_port: 8266\nauth:\n  password: secret\n"
	if err := os.WriteFile(path, []byte(partial), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Server.WSPort != 8266 {
		t.Errorf("loaded WSPort = %v, want 8266", s.Server.WSPort)
	}
	if s.Auth.Password != "secret" {
		t.Errorf("loaded Password = %q, want %q", s.Auth.Password, "secret")
	}
	if s.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("omitted HTTPPort = %v, want default %v", s.Server.HTTPPort, DefaultHTTPPort)
	}
	if s.Limits.IdleReadSeconds != DefaultIdleReadSeconds {
		t.Errorf("omitted IdleReadSeconds = %v, want default %v", s.Limits.IdleReadSeconds, DefaultIdleReadSeconds)
	}
}

func TestLoadRejectsBadVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := os.WriteFile(path, []byte("version: 2\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() with version 2 should fail")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	bad := "version: 1\nauth:\n  on_failure: banish\n"
	if err := os.WriteFile(path, []byte(bad), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() with unknown on_failure policy should fail")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after WriteDefault error = %v", err)
	}
	if s.Server.WSPort != DefaultWSPort {
		t.Errorf("default file WSPort = %v, want %v", s.Server.WSPort, DefaultWSPort)
	}

	// Refuses to clobber an existing file
	if err := WriteDefault(path); err == nil {
		t.Error("WriteDefault() should fail when the file exists")
	}
}
