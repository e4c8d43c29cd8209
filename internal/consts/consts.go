package consts

import (
	"os"
	"path/filepath"
)

// Constants for configuration paths and defaults
const (
	DefaultDirName  = ".wudwatch"
	StateFileName   = "state.json"
	ConfigFileName  = "wudwatch.yaml"
	DefaultProtocol = "http"
	DefaultPort     = 3000
	DefaultUsername = "homeassistant"
	DefaultInstance = "wud"

	// WUD label naming the trigger the watcher may dispatch on install.
	TriggerLabel = "wud.trigger.hass"
)

// GetWudwatchDir returns the per-user directory wudwatch stores state in.
func GetWudwatchDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// GetStateFilePath returns the path to the persisted snapshot file.
func GetStateFilePath() string {
	return filepath.Join(GetWudwatchDir(), StateFileName)
}
