package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" required:"true"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
	Host        string `envconfig:"SERVICE_HOST" default:"localhost:8080"`
}

type Postgres struct {
	URL                string `envconfig:"POSTGRES_URL" required:"true"`
	MaxConns           int32  `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
	MinConns           int32  `envconfig:"POSTGRES_MIN_CONNS" default:"2"`
	ConnMaxLifetimeSec int    `envconfig:"POSTGRES_CONN_MAX_LIFETIME_SEC" default:"3600"`
	MigrationPath      string `envconfig:"POSTGRES_MIGRATION_PATH" default:"migrations/0001_init.sql"`
}

type SQS struct {
	Endpoint string `envconfig:"SQS_ENDPOINT"`
	QueueURL string `envconfig:"SQS_QUEUE_URL"`
	Region   string `envconfig:"SQS_REGION" default:"eu-west-1"`
}

type Consumer struct {
	BatchSizeMax    int    `envconfig:"CONSUMER_BATCH_SIZE_MAX" default:"100"`
	BatchTimeoutSec int    `envconfig:"CONSUMER_BATCH_TIMEOUT_SEC" default:"10"`
	HealthCheckPort string `envconfig:"CONSUMER_HEALTH_CHECK_PORT" default:"8081"`
}

type Config struct {
	Service  Service
	Postgres Postgres
	SQS      SQS
	Consumer Consumer
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
