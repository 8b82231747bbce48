package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the service configuration, loaded from BODYCOMP_* environment
// variables.
type Config struct {
	ListenAddress  string `envconfig:"LISTEN_ADDRESS" default:":9107"`
	MongoURI       string `envconfig:"MONGO_URI" required:"true"`
	DatabaseName   string `envconfig:"DATABASE_NAME" required:"true"`
	ExportBucket   string `envconfig:"EXPORT_BUCKET"`
	AwsRegion      string `envconfig:"AWS_REGION" default:"eu-west-1"`
	S3EndpointURL  string `envconfig:"S3_ENDPOINT_URL"`
	WeightPolarity string `envconfig:"WEIGHT_POLARITY" default:"higher"`
}

// FromEnv loads and validates the service configuration.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("bodycomp", &cfg); err != nil {
		return nil, err
	}
	if cfg.WeightPolarity != "higher" && cfg.WeightPolarity != "lower" {
		return nil, fmt.Errorf("invalid WEIGHT_POLARITY %q, expected higher or lower", cfg.WeightPolarity)
	}
	return &cfg, nil
}

// WeightHigherIsBetter translates the configured weight polarity. The
// default follows the metric table but a cutting goal flips it.
func (c *Config) WeightHigherIsBetter() bool {
	return c.WeightPolarity != "lower"
}
