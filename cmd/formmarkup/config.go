package main

import (
	"errors"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds CLI defaults read from the environment; flags override them.
type Config struct {
	// OutputDir receives <name>.html per input. ENV: FORMMARKUP_OUTPUT_DIR
	OutputDir string `env:"FORMMARKUP_OUTPUT_DIR"`
	// AllowHTTP enables URL sources. ENV: FORMMARKUP_ALLOW_HTTP
	AllowHTTP bool `env:"FORMMARKUP_ALLOW_HTTP,default=true"`
	// HTTPTimeout caps remote fetches. ENV: FORMMARKUP_HTTP_TIMEOUT
	HTTPTimeout time.Duration `env:"FORMMARKUP_HTTP_TIMEOUT,default=10s"`
	// Jobs bounds concurrent compiles. ENV: FORMMARKUP_JOBS
	Jobs int `env:"FORMMARKUP_JOBS,default=4"`
	// Format forces json or yaml instead of detection. ENV: FORMMARKUP_FORMAT
	Format string `env:"FORMMARKUP_FORMAT"`
	// Verbose enables debug logging. ENV: FORMMARKUP_VERBOSE
	Verbose bool `env:"FORMMARKUP_VERBOSE"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, err
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	return cfg, nil
}
