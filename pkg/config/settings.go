package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"
)

// Environment variables overriding settings.
const (
	EnvSettings    = "PROMPTLINE_SETTINGS"
	EnvPrompt      = "PROMPTLINE_PROMPT"
	EnvBindings    = "PROMPTLINE_BINDINGS"
	EnvHistorySize = "PROMPTLINE_HISTORY_SIZE"
	EnvErase       = "PROMPTLINE_ERASE_AFTER_READ"
)

const (
	settingsDir  = ".promptline"
	settingsFile = "settings.yaml"
)

// Settings holds the user preferences of the promptline CLI.
type Settings struct {
	Prompt         string   `yaml:"prompt"`
	Bindings       string   `yaml:"bindings"` // path to a binding document
	HistorySize    int      `yaml:"history_size"`
	EraseAfterRead bool     `yaml:"erase_after_read"`
	Candidates     []string `yaml:"candidates"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Prompt:      "> ",
		HistorySize: 50,
	}
}

// DefaultSettingsPath returns ~/.promptline/settings.yaml, or the value of
// PROMPTLINE_SETTINGS when set.
func DefaultSettingsPath(m Manager) (string, error) {
	if path := m.GetStringWithDefault(EnvSettings, ""); path != "" {
		return homedir.Expand(path)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, settingsDir, settingsFile), nil
}

// LoadSettings reads settings from path. A missing file yields the
// defaults. Environment variables read through m override the file.
func LoadSettings(path string, m Manager) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	default:
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}

	settings.applyEnv(m)
	if settings.Bindings != "" {
		expanded, err := homedir.Expand(settings.Bindings)
		if err != nil {
			return nil, fmt.Errorf("invalid bindings path: %w", err)
		}
		settings.Bindings = expanded
	}
	return settings, nil
}

func (s *Settings) applyEnv(m Manager) {
	s.Prompt = m.GetStringWithDefault(EnvPrompt, s.Prompt)
	s.Bindings = m.GetStringWithDefault(EnvBindings, s.Bindings)
	s.HistorySize = m.GetIntWithDefault(EnvHistorySize, s.HistorySize)
	s.EraseAfterRead = m.GetBoolWithDefault(EnvErase, s.EraseAfterRead)
}

// Save writes s to path, creating the directory if needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
