package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

var ErrNoInventory = errors.New("either INVENTORY_FILE or LibreNMS DB settings are required")

var validate = validator.New()

type FromEnv struct {
	LogLevel               string `env:"LOG_LEVEL" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	WorkersNum             int    `env:"WORKERS_NUM,default=4" validate:"min=1"`
	PollingIntervalSeconds int    `env:"POLLING_INTERVAL_SECONDS,default=0" validate:"min=0"`
	MetricsAddr            string `env:"METRICS_ADDR" validate:"omitempty,hostname_port"`

	// Static switch inventory, takes precedence over LibreNMS
	InventoryFile string `env:"INVENTORY_FILE" validate:"omitempty,file"`

	// Librenms DB credentials
	DbUsername string `env:"DB_USERNAME" validate:"required_with=DbHost"`
	DbPassword string `env:"DB_PASSWORD"`
	DbHost     string `env:"DB_HOST"`
	DbPort     string `env:"DB_PORT,default=3306" validate:"omitempty,numeric"`
	DbName     string `env:"DB_NAME,default=librenms"`
	DbQuery    string `env:"DB_QUERY"`

	/* Audit of applied interface descriptions, disabled without CLICKHOUSE_ADDR */
	ClickhouseAddr           string `env:"CLICKHOUSE_ADDR"`
	ClickhousePort           string `env:"CLICKHOUSE_PORT,default=9000" validate:"omitempty,numeric"`
	ClickhouseDb             string `env:"CLICKHOUSE_DB" validate:"required_with=ClickhouseAddr"`
	ClickhouseUsername       string `env:"CLICKHOUSE_USERNAME"`
	ClickhousePassword       string `env:"CLICKHOUSE_PASSWORD"`
	ClickhouseTableName      string `env:"CLICKHOUSE_AUDIT_TABLE_NAME,default=interface_descriptions"`
	ClickhouseQueueLength    int    `env:"CLICKHOUSE_QUEUE_LENGTH,default=1000" validate:"min=1"`
	ClickhouseFlushFrequency int    `env:"CLICKHOUSE_FLUSH_FREQUENCY,default=100" validate:"min=1"`
}

// Load reads the process environment and validates it.
func Load(ctx context.Context) (*FromEnv, error) {
	var cfg FromEnv
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *FromEnv) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	return nil
}

// ValidateInventory checks that a sweep has somewhere to list switches from.
func (c *FromEnv) ValidateInventory() error {
	if c.InventoryFile != "" {
		return nil
	}
	if c.DbHost == "" {
		return ErrNoInventory
	}
	if err := validate.StructPartial(c, "DbUsername", "DbHost", "DbPort", "DbName"); err != nil {
		return fmt.Errorf("invalid librenms settings: %w", err)
	}
	return nil
}

func (c *FromEnv) AuditEnabled() bool {
	return c.ClickhouseAddr != ""
}

func (c *FromEnv) PollingInterval() time.Duration {
	return time.Duration(c.PollingIntervalSeconds) * time.Second
}

func (c *FromEnv) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@(%s:%s)/%s", c.DbUsername, c.DbPassword, c.DbHost, c.DbPort, c.DbName)
}
