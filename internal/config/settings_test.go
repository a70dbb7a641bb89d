package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	}

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "dashpanel") {
		t.Errorf("GetConfigDir() = %v, should contain 'dashpanel'", configDir)
	}

	if runtime.GOOS == "linux" {
		want := filepath.Join("/tmp/xdg-test", "dashpanel")
		if configDir != want {
			t.Errorf("GetConfigDir() = %v, want %v", configDir, want)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewSettings(t *testing.T) {
	s := NewSettings()

	if s.Version != 1 {
		t.Errorf("NewSettings().Version = %v, want 1", s.Version)
	}

	if s.Panel == nil {
		t.Fatal("NewSettings().Panel should not be nil")
	}

	if s.Panel.ResetSubViewOnCardChange {
		t.Error("NewSettings().Panel.ResetSubViewOnCardChange should be false by default")
	}

	if s.Preview == nil {
		t.Fatal("NewSettings().Preview should not be nil")
	}

	if s.Preview.Addr != DefaultPreviewAddr {
		t.Errorf("NewSettings().Preview.Addr = %v, want %v", s.Preview.Addr, DefaultPreviewAddr)
	}

	if s.Preview.Advertise {
		t.Error("NewSettings().Preview.Advertise should be false by default")
	}
}

func TestTouchRecent(t *testing.T) {
	s := NewSettings()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")

	before := time.Now()
	s.TouchRecent(a, "A")
	s.TouchRecent(b, "B")
	s.TouchRecent(a, "A again")

	if len(s.RecentDocuments) != 2 {
		t.Fatalf("len(RecentDocuments) = %d, want 2", len(s.RecentDocuments))
	}

	recent := s.MostRecent()
	if recent.Path != a {
		t.Errorf("MostRecent().Path = %v, want %v", recent.Path, a)
	}
	if recent.Name != "A again" {
		t.Errorf("MostRecent().Name = %v, want 'A again'", recent.Name)
	}
	if recent.LastOpened.Before(before) {
		t.Errorf("LastOpened = %v, should not be before %v", recent.LastOpened, before)
	}
	if s.RecentDocuments[1].Path != b {
		t.Errorf("RecentDocuments[1].Path = %v, want %v", s.RecentDocuments[1].Path, b)
	}
}

func TestTouchRecentCapsList(t *testing.T) {
	s := NewSettings()
	dir := t.TempDir()

	for i := 0; i < maxRecentDocuments+5; i++ {
		s.TouchRecent(filepath.Join(dir, fmt.Sprintf("doc-%d.yaml", i)), "")
	}

	if len(s.RecentDocuments) != maxRecentDocuments {
		t.Errorf("len(RecentDocuments) = %d, want %d", len(s.RecentDocuments), maxRecentDocuments)
	}

	want := filepath.Join(dir, fmt.Sprintf("doc-%d.yaml", maxRecentDocuments+4))
	if s.MostRecent().Path != want {
		t.Errorf("MostRecent().Path = %v, want %v", s.MostRecent().Path, want)
	}
}

func TestMostRecentEmpty(t *testing.T) {
	s := NewSettings()
	if s.MostRecent() != nil {
		t.Error("MostRecent() should be nil for new settings")
	}
}

func TestSettingsSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := NewSettings()
	s.Panel.ResetSubViewOnCardChange = true
	s.Preview.Addr = "0.0.0.0:9000"
	s.Preview.Advertise = true
	s.TouchRecent("/tmp/sales.yaml", "Sales")

	if err := s.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	if _, err := os.Stat(configPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after SaveTo()")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# dashpanel Configuration File") {
		t.Error("saved config should start with the header comment")
	}

	loaded, err := LoadSettingsFile(configPath)
	if err != nil {
		t.Fatalf("LoadSettingsFile() error = %v", err)
	}

	if !loaded.Panel.ResetSubViewOnCardChange {
		t.Error("Loaded Panel.ResetSubViewOnCardChange = false, want true")
	}
	if loaded.Preview.Addr != "0.0.0.0:9000" {
		t.Errorf("Loaded Preview.Addr = %v, want 0.0.0.0:9000", loaded.Preview.Addr)
	}
	if !loaded.Preview.Advertise {
		t.Error("Loaded Preview.Advertise = false, want true")
	}
	if len(loaded.RecentDocuments) != 1 || loaded.RecentDocuments[0].Name != "Sales" {
		t.Errorf("Loaded RecentDocuments = %v, want one entry named Sales", loaded.RecentDocuments)
	}
}

func TestLoadSettingsFileMissing(t *testing.T) {
	s, err := LoadSettingsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadSettingsFile() error = %v", err)
	}
	if s.Version != 1 {
		t.Errorf("Version = %v, want 1", s.Version)
	}
}

func TestLoadSettingsFileFillsSections(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("version: 1\n"), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	s, err := LoadSettingsFile(configPath)
	if err != nil {
		t.Fatalf("LoadSettingsFile() error = %v", err)
	}

	if s.Panel == nil || s.Preview == nil {
		t.Fatal("missing sections should be filled with defaults")
	}
	if s.Preview.Addr != DefaultPreviewAddr {
		t.Errorf("Preview.Addr = %v, want %v", s.Preview.Addr, DefaultPreviewAddr)
	}
	if s.RecentDocuments == nil {
		t.Error("RecentDocuments should not be nil")
	}
}

func TestLoadSettingsFileRejectsVersion(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("version: 2\n"), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := LoadSettingsFile(configPath); err == nil {
		t.Error("LoadSettingsFile() should reject version 2")
	}
}

func TestLoadSettingsFileRejectsGarbage(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("version: [unterminated"), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := LoadSettingsFile(configPath); err == nil {
		t.Error("LoadSettingsFile() should fail on malformed YAML")
	}
}

// Benchmark tests

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

func BenchmarkTouchRecent(b *testing.B) {
	s := NewSettings()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.TouchRecent("/tmp/bench.yaml", "bench")
	}
}
