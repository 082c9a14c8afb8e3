package config

import (
	"errors"
	"os"

	"github.com/SaiNageswarS/go-mini-boot/dotenv"
	"github.com/caarlos0/env/v11"
	"github.com/go-ini/ini"
)

// BootConfig holds the runtime settings of a go-mini-boot application.
// Embed it with `ini:",extends"` to add application specific keys.
type BootConfig struct {
	Port     string `ini:"port" env:"PORT"`
	ScanRoot string `ini:"scan_root" env:"SCAN_ROOT"`

	// MetricsPort exposes /metrics and /health when non-empty.
	MetricsPort string `ini:"metrics_port" env:"METRICS_PORT"`

	PrettyJSON bool `ini:"pretty_json" env:"PRETTY_JSON"`

	// AcceptRate caps accepted connections per second. Zero disables it.
	AcceptRate float64 `ini:"accept_rate" env:"ACCEPT_RATE"`

	// MaxBodyBytes rejects larger request bodies as malformed.
	MaxBodyBytes int64 `ini:"max_body_bytes" env:"MAX_BODY_BYTES"`
}

func Default() BootConfig {
	return BootConfig{
		Port:         ":8080",
		ScanRoot:     "example",
		PrettyJSON:   true,
		MaxBodyBytes: 1 << 20,
	}
}

// Loads config into the target struct from the given path - an INI file.
// Values are read from the section named by ENV (the default section when
// ENV is empty), then overridden by .env and process environment variables.
// An empty path skips the INI step.
func LoadConfig[T any](path string, target *T) error {
	if target == nil {
		return errors.New("target cannot be nil")
	}

	if path != "" {
		file, err := ini.Load(path)
		if err != nil {
			return err
		}

		// Step 1: Load from INI
		if err := file.Section(os.Getenv("ENV")).MapTo(target); err != nil {
			return err
		}
	}

	// Step 2: Override from ENV
	if err := dotenv.LoadEnv(); err != nil {
		return err
	}

	return env.Parse(target)
}
