// Package server exposes the ledger engine over HTTP to the POS front end.
// Every handler is a thin JSON adapter: validation, stock rules and the
// checkout protocol all live in the engine.
package server

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config is the HTTP collaborator's environment-driven configuration.
// Variables are prefixed POSLOG_, e.g. POSLOG_ADDR.
type Config struct {
	Addr     string `envconfig:"ADDR" default:":8032"`
	Root     string `envconfig:"ROOT" default:"."`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("poslog", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "reading environment")
	}
	return cfg, nil
}
