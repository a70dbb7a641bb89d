package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "dashpanel"
	configFile = "config.yaml"
)

var (
	// Global settings instance (loaded lazily)
	globalSettings     *Settings
	globalSettingsOnce sync.Once
	globalSettingsErr  error

	// Mutex for thread-safe file operations
	fileMutex sync.Mutex
)

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/dashpanel or $HOME/.config/dashpanel
//   - macOS: $HOME/.config/dashpanel
//   - Windows: %LOCALAPPDATA%\dashpanel
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// LoadSettings loads the user settings from disk.
// If the file doesn't exist, returns default settings.
// Thread-safe - multiple calls will return the same instance.
func LoadSettings() (*Settings, error) {
	globalSettingsOnce.Do(func() {
		configPath, err := GetConfigPath()
		if err != nil {
			globalSettingsErr = fmt.Errorf("failed to get config path: %w", err)
			return
		}
		globalSettings, globalSettingsErr = LoadSettingsFile(configPath)
	})
	return globalSettings, globalSettingsErr
}

// LoadSettingsFile reads settings from an explicit path.
// A missing file yields default settings.
func LoadSettingsFile(configPath string) (*Settings, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return NewSettings(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if settings.Version != 1 {
		return nil, fmt.Errorf("unsupported config version: %d (expected 1)", settings.Version)
	}

	// Fill sections missing from older files
	if settings.Panel == nil {
		settings.Panel = defaultPanelPrefs()
	}
	if settings.Preview == nil {
		settings.Preview = defaultPreviewPrefs()
	}
	if settings.Preview.Addr == "" {
		settings.Preview.Addr = DefaultPreviewAddr
	}
	if settings.RecentDocuments == nil {
		settings.RecentDocuments = make([]*RecentDocument, 0)
	}

	return &settings, nil
}

// Save saves the settings to the default configuration path.
func (s *Settings) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return s.SaveTo(configPath)
}

// SaveTo saves the settings to configPath.
// Performs an atomic write to prevent corruption on crash.
func (s *Settings) SaveTo(configPath string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# dashpanel Configuration File
# This file stores editor preferences and recently opened documents.
#
# Location: ` + configPath + `

`)
	data = append(header, data...)

	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// ReloadSettings reloads the settings from disk, discarding any in-memory changes.
func ReloadSettings() (*Settings, error) {
	fileMutex.Lock()
	globalSettingsOnce = sync.Once{}
	fileMutex.Unlock()
	return LoadSettings()
}

// SaveGlobal saves the global settings instance to disk.
func SaveGlobal() error {
	settings, err := LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	return settings.Save()
}
