package appdir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_XDG(t *testing.T) {
	root := t.TempDir()
	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))

	d, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", d.ConfigPath, filepath.Join(root, "config", "assetwatch", "config.yaml")},
		{"state", d.StatePath, filepath.Join(root, "state", "assetwatch")},
		{"data", d.DataPath, filepath.Join(root, "data", "assetwatch")},
		{"log", d.LogPath(), filepath.Join(root, "state", "assetwatch", "assetwatch.log")},
		{"data file", d.DataFile("chart.html"), filepath.Join(root, "data", "assetwatch", "chart.html")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestNew_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	d, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if want := filepath.Join(home, ".config", "assetwatch", "config.yaml"); d.ConfigPath != want {
		t.Errorf("ConfigPath = %q, want %q", d.ConfigPath, want)
	}
	if want := filepath.Join(home, ".local", "state", "assetwatch"); d.StatePath != want {
		t.Errorf("StatePath = %q, want %q", d.StatePath, want)
	}
}

func TestInitialize(t *testing.T) {
	root := t.TempDir()
	d := &Dirs{
		StatePath: filepath.Join(root, "state", "assetwatch"),
		DataPath:  filepath.Join(root, "data", "assetwatch"),
	}
	if err := d.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	for _, dir := range []string{d.StatePath, d.DataPath} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("%s was not created", dir)
		}
	}
	if err := d.Initialize(); err != nil {
		t.Errorf("second Initialize() error: %v", err)
	}
}
