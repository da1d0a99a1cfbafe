// Package settings provides configuration loading for gosu.
// It is kept separate from cli so hook packages can import it without a cycle.
package settings

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/paths"
)

const (
	// SettingsFile is the path to the gosu settings file
	SettingsFile = ".gosu/settings.json"
	// SettingsLocalFile is the path to the local settings override file (not committed)
	SettingsLocalFile = ".gosu/settings.local.json"
)

// Settings represents the .gosu/settings.json configuration
type Settings struct {
	// LogLevel sets the logging verbosity (debug, info, warn, error).
	// Can be overridden by GOSU_LOG_LEVEL environment variable.
	LogLevel string `json:"log_level,omitempty"`

	// Telemetry controls anonymous usage analytics.
	// nil = not configured (disabled), true = opted in, false = opted out
	Telemetry *bool `json:"telemetry,omitempty"`

	// AutoAllowNonDangerousToolUsage makes the guard hook answer "allow"
	// for tool calls it finds nothing wrong with.
	AutoAllowNonDangerousToolUsage bool `json:"autoAllowNonDangerousToolUsage,omitempty"`
}

// Load loads settings from .gosu/settings.json, then applies any overrides
// from .gosu/settings.local.json if it exists.
// Returns default settings if neither file exists.
func Load() (*Settings, error) {
	settingsFileAbs, err := paths.AbsPath(SettingsFile)
	if err != nil {
		settingsFileAbs = SettingsFile
	}
	localSettingsFileAbs, err := paths.AbsPath(SettingsLocalFile)
	if err != nil {
		localSettingsFileAbs = SettingsLocalFile
	}
	return LoadFrom(settingsFileAbs, localSettingsFileAbs)
}

// LoadFrom loads settings from explicit base and local override paths.
func LoadFrom(basePath, localPath string) (*Settings, error) {
	settings, err := loadFromFile(basePath)
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	localData, err := os.ReadFile(localPath) //nolint:gosec // path is from AbsPath or constant
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading local settings file: %w", err)
		}
	} else if err := mergeJSON(settings, localData); err != nil {
		return nil, fmt.Errorf("merging local settings: %w", err)
	}

	return settings, nil
}

func loadFromFile(filePath string) (*Settings, error) {
	settings := &Settings{}

	data, err := os.ReadFile(filePath) //nolint:gosec // path is from caller
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("%w", err)
	}

	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings file: %w", err)
	}
	return settings, nil
}

// mergeJSON overrides only the fields present in data.
func mergeJSON(settings *Settings, data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}

	if logLevelRaw, ok := raw["log_level"]; ok {
		var ll string
		if err := json.Unmarshal(logLevelRaw, &ll); err != nil {
			return fmt.Errorf("parsing log_level field: %w", err)
		}
		if ll != "" {
			settings.LogLevel = ll
		}
	}

	if telemetryRaw, ok := raw["telemetry"]; ok {
		var t bool
		if err := json.Unmarshal(telemetryRaw, &t); err != nil {
			return fmt.Errorf("parsing telemetry field: %w", err)
		}
		settings.Telemetry = &t
	}

	if autoRaw, ok := raw["autoAllowNonDangerousToolUsage"]; ok {
		var a bool
		if err := json.Unmarshal(autoRaw, &a); err != nil {
			return fmt.Errorf("parsing autoAllowNonDangerousToolUsage field: %w", err)
		}
		settings.AutoAllowNonDangerousToolUsage = a
	}

	return nil
}

// LogLevel returns the configured log level, or "" when settings cannot be read.
// Suitable for logging.SetLogLevelGetter.
func LogLevel() string {
	s, err := Load()
	if err != nil {
		return ""
	}
	return s.LogLevel
}
