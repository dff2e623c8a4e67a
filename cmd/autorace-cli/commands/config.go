package commands

import (
	"autorace-crawler/internal/components/configutil"
	"autorace-crawler/internal/scrapers/autorace"
	"errors"
	"fmt"
	"os"
	"time"
)

type Config struct {
	BaseUrl          string `json:"base_url"`
	UserAgent        string `json:"user_agent"`
	TimeoutSeconds   int    `json:"timeout_seconds"`
	Concurrency      int    `json:"concurrency"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
	Verbose          bool   `json:"verbose"`
}

var defaultConfig = Config{
	BaseUrl:     autorace.DefaultBaseUrl,
	UserAgent:   autorace.DefaultUserAgent,
	Concurrency: 1,
}

// LoadConfig reads the config at `path`, a missing file leaves every
// option at its default.
func LoadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return configutil.WithDefaults(cfg, defaultConfig)
}

func (c Config) ClientOptions() autorace.Options {
	return autorace.Options{
		BaseUrl:          c.BaseUrl,
		UserAgent:        c.UserAgent,
		Timeout:          time.Duration(c.TimeoutSeconds) * time.Second,
		Concurrency:      c.Concurrency,
		CloudflareBypass: c.CloudflareBypass,
	}
}
