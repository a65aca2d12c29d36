// Package config loads user settings from a YAML file under the OS config
// directory, with environment variable overrides for runtime concerns.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"pomogo/internal/core/model"
	"pomogo/internal/core/pomodoro"
)

const settingsFileName = "settings.yaml"

// minTickInterval keeps the poll loop from spinning on a bad config value.
const minTickInterval = 250 * time.Millisecond

// Settings defines editable user preferences.
type Settings struct {
	WorkDuration  time.Duration
	TickInterval  time.Duration
	Notifications bool

	LogLevel string
	Headless bool

	// Directory the settings file was read from; empty means the OS
	// default config directory.
	ConfigDir string
}

type yamlSettings struct {
	WorkMinutes         int `yaml:"work_minutes"`
	TickIntervalSeconds int `yaml:"tick_interval_seconds"`
	// Pointer so an absent key keeps the default instead of forcing false.
	Notifications *bool `yaml:"notifications"`
}

type env struct {
	ConfigDir string `envconfig:"POMO_CONFIG_DIR"`
	LogLevel  string `envconfig:"POMO_LOG_LEVEL" default:"info"`
	Headless  bool   `envconfig:"POMO_HEADLESS" default:"false"`
}

// DefaultSettings returns the default settings: the classic 25-minute
// pomodoro polled once per second.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:  25 * time.Minute,
		TickInterval:  time.Second,
		Notifications: true,
		LogLevel:      "info",
	}
}

// Load reads environment overrides, then user preferences from YAML.
// If the settings file does not exist, defaults are returned.
func Load(appName string) (Settings, error) {
	settings := DefaultSettings()

	var environment env
	if err := envconfig.Process("", &environment); err != nil {
		return settings, fmt.Errorf("process environment: %w", err)
	}
	settings.LogLevel = environment.LogLevel
	settings.Headless = environment.Headless
	settings.ConfigDir = environment.ConfigDir

	configPath, err := settings.resolvePath(appName)
	if err != nil {
		return settings, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// Save writes user preferences to YAML.
func Save(appName string, settings Settings) error {
	configPath, err := settings.resolvePath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		WorkMinutes:         int(settings.WorkDuration / time.Minute),
		TickIntervalSeconds: int(settings.TickInterval / time.Second),
		Notifications:       &settings.Notifications,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// TimerConfig converts settings to the engine's TimerConfig.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		WorkDuration: settings.WorkDuration,
		TickInterval: settings.TickInterval,
	}
}

func (settings Settings) resolvePath(appName string) (string, error) {
	dir := settings.ConfigDir
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve user config dir: %w", err)
		}
		dir = filepath.Join(configDir, appName)
	}
	return filepath.Join(dir, settingsFileName), nil
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		workDuration := time.Duration(fileData.WorkMinutes) * time.Minute
		if workDuration < pomodoro.MinWorkDuration {
			workDuration = pomodoro.MinWorkDuration
		}
		settings.WorkDuration = workDuration
	}
	if fileData.TickIntervalSeconds > 0 {
		tick := time.Duration(fileData.TickIntervalSeconds) * time.Second
		if tick < minTickInterval {
			tick = minTickInterval
		}
		settings.TickInterval = tick
	}
	if fileData.Notifications != nil {
		settings.Notifications = *fileData.Notifications
	}
}
