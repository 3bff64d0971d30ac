package ffmpeg

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of environment variables read by LoadSettings
const EnvPrefix = "ytd"

// Settings holds environment overrides for the managed ffmpeg copy
type Settings struct {
	// AppDir replaces the per-user application data directory
	AppDir string `envconfig:"APP_DIR"`
	// DownloadURL replaces the platform download URL
	DownloadURL string `envconfig:"FFMPEG_URL"`
}

// LoadSettings reads YTD_APP_DIR and YTD_FFMPEG_URL from the environment
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return Settings{}, fmt.Errorf("process environment: %w", err)
	}
	return s, nil
}
