package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/tartampluch/go-celebrate/internal/config"
)

// envDefaults seeds the command-line flags, so a kiosk or launcher can
// configure the app without arguments. Flags still win.
type envDefaults struct {
	Debug  bool   `env:"GO_CELEBRATE_DEBUG"`
	Mobile bool   `env:"GO_CELEBRATE_MOBILE"`
	Target string `env:"GO_CELEBRATE_TARGET"`
	Name   string `env:"GO_CELEBRATE_NAME"`
	VCard  string `env:"GO_CELEBRATE_VCARD"`
	Assets string `env:"GO_CELEBRATE_ASSETS"`
	Lang   string `env:"GO_CELEBRATE_LANG"`
}

// loadEnvDefaults reads envDefaults from the process environment.
func loadEnvDefaults() (envDefaults, error) {
	var d envDefaults
	if err := env.Parse(&d); err != nil {
		return envDefaults{}, fmt.Errorf("%s: %w", config.ErrEnvParse, err)
	}
	return d, nil
}
