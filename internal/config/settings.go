package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config file keys
const (
	KeyDefaultOutput       = "default_output"
	KeyDefaultFormat       = "default_format"
	KeyAudioFormat         = "audio_format"
	KeySubtitles           = "subtitles"
	KeyMetadata            = "metadata"
	KeyConcurrentDownloads = "concurrent_downloads"
	KeyRateLimit           = "rate_limit"
)

// Default values
const (
	DefaultOutput              = "~/Videos/YouTube"
	DefaultFormat              = "best"
	DefaultAudioFormat         = "mp3"
	DefaultSubtitles           = false
	DefaultMetadata            = true
	DefaultConcurrentDownloads = 3
)

const (
	appName        = "ytd"
	configFileName = "config.yaml"
)

// Settings is the typed form of the config file, used to write defaults
type Settings struct {
	DefaultOutput       string  `yaml:"default_output"`
	DefaultFormat       string  `yaml:"default_format"`
	AudioFormat         string  `yaml:"audio_format"`
	Subtitles           bool    `yaml:"subtitles"`
	Metadata            bool    `yaml:"metadata"`
	ConcurrentDownloads int     `yaml:"concurrent_downloads"`
	RateLimit           *string `yaml:"rate_limit"`
}

// Defaults returns the settings written by WriteDefault
func Defaults() Settings {
	return Settings{
		DefaultOutput:       DefaultOutput,
		DefaultFormat:       DefaultFormat,
		AudioFormat:         DefaultAudioFormat,
		Subtitles:           DefaultSubtitles,
		Metadata:            DefaultMetadata,
		ConcurrentDownloads: DefaultConcurrentDownloads,
	}
}

// DefaultPath returns ~/.config/ytd/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, configFileName), nil
}

// Read parses a YAML config file into a generic mapping. An empty file
// yields an empty mapping.
func Read(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := make(map[string]any)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if cfg == nil {
		cfg = make(map[string]any)
	}
	return cfg, nil
}

// Load reads the config file at path. Any failure is logged and results in
// an empty mapping, so a broken config never stops a download.
func Load(path string, logger *slog.Logger) map[string]any {
	cfg, err := Read(path)
	if err != nil {
		if logger != nil {
			logger.Error("Error loading config file", "path", path, "error", err)
		}
		return map[string]any{}
	}
	if logger != nil {
		logger.Debug("Loaded config", "path", path, "keys", len(cfg))
	}
	return cfg
}

// LoadDefault loads the default config file when it exists. A missing file
// is not an error.
func LoadDefault(logger *slog.Logger) map[string]any {
	path, err := DefaultPath()
	if err != nil {
		return map[string]any{}
	}
	if _, err := os.Stat(path); err != nil {
		return map[string]any{}
	}
	return Load(path, logger)
}

// WriteDefault writes the default config to path unless a file already
// exists there. It reports whether a file was created.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return false, fmt.Errorf("encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config file: %w", err)
	}
	return true, nil
}
