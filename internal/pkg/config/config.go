// Package config loads process configuration from the environment.
//
// A .env file in the working directory is read first when present, then
// envconfig fills the typed struct. Real environment variables win over
// .env entries because godotenv never overrides variables already set.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config is the storefront process configuration.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `split_words:"true" default:"info"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	GRPCAddr string `envconfig:"GRPC_ADDR" default:":9090"`

	ProductSource ProductSourceConfig `envconfig:"PRODUCT_SOURCE"`
	Redis         RedisConfig         `envconfig:"REDIS"`
	Session       SessionConfig       `envconfig:"SESSION"`
	Telemetry     TelemetryConfig     `envconfig:"OTEL"`

	// JournalPath is the SQLite file for the cart journal. Empty disables it.
	JournalPath string `split_words:"true"`
}

type ProductSourceConfig struct {
	URL string `envconfig:"URL" required:"true"`
	// Timeout of zero means requests are bounded only by the caller's context.
	Timeout            time.Duration `envconfig:"TIMEOUT" default:"0s"`
	BreakerMaxFailures uint32        `split_words:"true" default:"5"`
	BreakerOpenTimeout time.Duration `split_words:"true" default:"30s"`
}

type RedisConfig struct {
	// Addr of the product cache. Empty disables caching.
	Addr     string        `envconfig:"ADDR"`
	CacheTTL time.Duration `split_words:"true" default:"60s"`
}

type SessionConfig struct {
	IdleTTL       time.Duration `split_words:"true" default:"30m"`
	SweepInterval time.Duration `split_words:"true" default:"1m"`
}

type TelemetryConfig struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"storefront"`
	// Endpoint of the OTLP gRPC collector. Empty disables tracing.
	Endpoint string `envconfig:"EXPORTER_OTLP_ENDPOINT"`
}

// Load reads the storefront configuration.
func Load(envFiles ...string) (*Config, error) {
	var cfg Config
	if err := Process("", &cfg, envFiles...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Process loads the optional env files and fills target with envconfig.
// Missing env files are ignored.
func Process(prefix string, target any, envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "config: load %s", f)
		}
	}

	if err := envconfig.Process(prefix, target); err != nil {
		return errors.Wrap(err, "config: process environment")
	}
	return nil
}
