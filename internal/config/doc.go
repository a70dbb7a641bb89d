// Package config provides user configuration management for dashpanel.
//
// This package manages a YAML-based settings file that stores editor
// preferences (panel behaviour, live preview) and the list of recently
// opened documents. The file follows OS-specific conventions for storage
// location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/dashpanel/config.yaml or $HOME/.config/dashpanel/config.yaml
//   - macOS: $HOME/.config/dashpanel/config.yaml
//   - Windows: %LOCALAPPDATA%\dashpanel\config.yaml
//
// # Usage Example
//
//	settings, err := config.LoadSettings()
//	if err != nil {
//	    return err
//	}
//
//	settings.TouchRecent("dashboard.yaml", "Sales")
//	if err := settings.Save(); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// The global settings use sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
