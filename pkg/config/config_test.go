package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}
	if cfg.BaseURL != "http://localhost:8000" {
		t.Errorf("expected default BaseURL, got %q", cfg.BaseURL)
	}
	if cfg.TransportKind() != domain.TransportWebSocket {
		t.Errorf("expected websocket transport, got %q", cfg.Transport)
	}
	if cfg.BackoffFloor() != 3*time.Second || cfg.BackoffCeiling() != 30*time.Second {
		t.Errorf("backoff = %v..%v", cfg.BackoffFloor(), cfg.BackoffCeiling())
	}
	if cfg.HighlightWindow() != 3*time.Second {
		t.Errorf("highlight window = %v", cfg.HighlightWindow())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("unexpected error loading non-existent file: %v", err)
	}
	if cfg.SocketPath != "/ws" || cfg.StreamPath != "/api/assets/stream" {
		t.Errorf("expected default paths, got %q %q", cfg.SocketPath, cfg.StreamPath)
	}
}

func TestSave_And_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.BaseURL = "https://assets.example.com"
	cfg.Transport = "sse"
	cfg.BackoffFloorMS = 1000
	cfg.BackoffCeilingMS = 8000
	cfg.ReverseSort = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", loaded, cfg)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "base_url: http://10.0.0.5:8000\nbackoff_floor_ms: 0\ntransport: \"\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.BackoffFloorMS != 3000 {
		t.Errorf("BackoffFloorMS = %d, want 3000", cfg.BackoffFloorMS)
	}
	if cfg.Transport != "websocket" {
		t.Errorf("Transport = %q, want websocket", cfg.Transport)
	}
	if cfg.HighlightMS != 3000 {
		t.Errorf("HighlightMS = %d", cfg.HighlightMS)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "base_url: [unclosed"},
		{"unknown transport", "transport: carrier-pigeon"},
		{"ceiling below floor", "backoff_floor_ms: 5000\nbackoff_ceiling_ms: 1000"},
		{"unknown theme", "color_theme: neon"},
		{"unknown log level", "log_level: chatty"},
		{"unknown sort", "default_sort: size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), "base_url:") {
		t.Errorf("unexpected yaml:\n%s", data)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		check   func(*Config) bool
		wantErr bool
	}{
		{key: "transport", value: "sse", check: func(c *Config) bool { return c.TransportKind() == domain.TransportSSE }},
		{key: "base_url", value: " https://x.example ", check: func(c *Config) bool { return c.BaseURL == "https://x.example" }},
		{key: "highlight_ms", value: "1500", check: func(c *Config) bool { return c.HighlightWindow() == 1500*time.Millisecond }},
		{key: "reverse_sort", value: "true", check: func(c *Config) bool { return c.ReverseSort }},
		{key: "highlight_ms", value: "-1", wantErr: true},
		{key: "highlight_ms", value: "soon", wantErr: true},
		{key: "transport", value: "smoke", wantErr: true},
		{key: "backoff_floor_ms", value: "60000", wantErr: true},
		{key: "watch_config", value: "maybe", wantErr: true},
		{key: "editor", value: "vim", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			before := *cfg
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if *cfg != before {
					t.Error("failed Set modified the config")
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("Set(%q, %q) not applied: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestGetAndKeys(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range Keys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) error: %v", key, err)
		}
	}
	if v, _ := cfg.Get("backoff_ceiling_ms"); v != "30000" {
		t.Errorf("Get(backoff_ceiling_ms) = %q", v)
	}
	if _, err := cfg.Get("nope"); err == nil {
		t.Error("expected error for unknown key")
	}
}
