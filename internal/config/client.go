package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ClientConfig configures the terminal client.
type ClientConfig struct {
	Environment string
	ServerURL   string
	Timeout     time.Duration
	StatePath   string
	Locale      string
	LogLevel    string
}

func LoadClient() (*ClientConfig, error) {
	v := viper.New()
	v.SetConfigName("portal")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(home + "/incognitify")
	}

	v.SetEnvPrefix("PORTAL_CLIENT")
	v.AutomaticEnv()

	v.SetDefault("environment", "production")
	v.SetDefault("serverurl", "http://localhost:3000")
	v.SetDefault("timeout", "15s")
	v.SetDefault("statepath", "portal-state.db")
	v.SetDefault("locale", os.Getenv("LANG"))
	v.SetDefault("loglevel", "warn")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load client config: %w", err)
		}
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.StringToTimeDurationHookFunc()
	}); err != nil {
		return nil, fmt.Errorf("unmarshal client config: %w", err)
	}
	return &cfg, nil
}
