// Package config assembles service settings from defaults, an optional YAML
// file named by CONFIG_FILE, and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/example/snack-storefront/internal/domain/cart"
	"github.com/example/snack-storefront/internal/order"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverDynamoDB = "dynamodb"

	minSecretLength = 32
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Shop    ShopConfig    `yaml:"shop"`
	Storage StorageConfig `yaml:"storage"`
	Handoff HandoffConfig `yaml:"handoff"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Session SessionConfig `yaml:"session"`
	SMTP    SMTPConfig    `yaml:"smtp"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	AssetsDir string `yaml:"assets_dir"`
}

type ShopConfig struct {
	Name        string `yaml:"name"`
	Currency    string `yaml:"currency"`
	CatalogFile string `yaml:"catalog_file"`
}

type StorageConfig struct {
	Driver      string        `yaml:"driver"`
	Namespace   string        `yaml:"namespace"`
	DatabaseURL string        `yaml:"database_url"`
	RedisURL    string        `yaml:"redis_url"`
	CartTTL     time.Duration `yaml:"cart_ttl"`
	DynamoTable string        `yaml:"dynamo_table"`
	AWSRegion   string        `yaml:"aws_region"`
}

type HandoffConfig struct {
	BaseURL   string `yaml:"base_url"`
	Recipient string `yaml:"recipient"`
}

// KafkaConfig with no brokers disables event publishing
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

type SessionConfig struct {
	Secret        string        `yaml:"secret"`
	TTL           time.Duration `yaml:"ttl"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	From     string `yaml:"from"`
	NotifyTo string `yaml:"notify_to"`
}

// Default returns the settings used when nothing overrides them
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Shop: ShopConfig{
			Name:     order.DefaultShopName,
			Currency: order.DefaultCurrency,
		},
		Storage: StorageConfig{
			Driver:      DriverMemory,
			Namespace:   cart.DefaultNamespace,
			CartTTL:     30 * 24 * time.Hour,
			DynamoTable: "cart_slots",
			AWSRegion:   "ap-south-1",
		},
		Handoff: HandoffConfig{
			BaseURL:   order.DefaultHandoffBaseURL,
			Recipient: order.PlaceholderRecipient,
		},
		Kafka: KafkaConfig{
			Topic:   "storefront-events",
			GroupID: "storefront-notifier",
		},
		Session: SessionConfig{
			TTL:           30 * 24 * time.Hour,
			IdleTimeout:   30 * time.Minute,
			SweepInterval: time.Minute,
		},
		SMTP: SMTPConfig{
			Host: "localhost",
			Port: "1025",
			From: "orders@roshangrams.lk",
		},
	}
}

// Load builds the config and validates it
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv("HTTP_ADDR", c.Server.Addr)
	c.Server.AssetsDir = getEnv("ASSETS_DIR", c.Server.AssetsDir)

	c.Shop.Name = getEnv("SHOP_NAME", c.Shop.Name)
	c.Shop.Currency = getEnv("CURRENCY", c.Shop.Currency)
	c.Shop.CatalogFile = getEnv("CATALOG_FILE", c.Shop.CatalogFile)

	c.Storage.Driver = strings.ToLower(getEnv("STORAGE_DRIVER", c.Storage.Driver))
	c.Storage.Namespace = getEnv("CART_NAMESPACE", c.Storage.Namespace)
	c.Storage.DatabaseURL = getEnv("DATABASE_URL", c.Storage.DatabaseURL)
	c.Storage.RedisURL = getEnv("REDIS_URL", c.Storage.RedisURL)
	c.Storage.DynamoTable = getEnv("DYNAMO_TABLE", c.Storage.DynamoTable)
	c.Storage.AWSRegion = getEnv("AWS_REGION", c.Storage.AWSRegion)

	c.Handoff.BaseURL = getEnv("HANDOFF_BASE_URL", c.Handoff.BaseURL)
	c.Handoff.Recipient = getEnv("WHATSAPP_RECIPIENT", c.Handoff.Recipient)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = splitList(brokers)
	}
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)
	c.Kafka.GroupID = getEnv("KAFKA_GROUP_ID", c.Kafka.GroupID)

	c.Session.Secret = getEnv("SESSION_SECRET", c.Session.Secret)

	c.SMTP.Host = getEnv("SMTP_HOST", c.SMTP.Host)
	c.SMTP.Port = getEnv("SMTP_PORT", c.SMTP.Port)
	c.SMTP.From = getEnv("SMTP_FROM", c.SMTP.From)
	c.SMTP.NotifyTo = getEnv("SMTP_NOTIFY_TO", c.SMTP.NotifyTo)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"CART_TTL", &c.Storage.CartTTL},
		{"SESSION_TTL", &c.Session.TTL},
		{"SESSION_IDLE_TIMEOUT", &c.Session.IdleTimeout},
		{"SESSION_SWEEP_INTERVAL", &c.Session.SweepInterval},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

// Validate reports the first setting that would stop the service from running
func (c Config) Validate() error {
	if len(c.Session.Secret) < minSecretLength {
		return fmt.Errorf("%w: SESSION_SECRET must be at least %d characters long", ErrInvalidConfig, minSecretLength)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("%w: session ttl must be positive", ErrInvalidConfig)
	}
	if c.Session.IdleTimeout <= 0 || c.Session.SweepInterval <= 0 {
		return fmt.Errorf("%w: session idle timeout and sweep interval must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Handoff.Recipient) == "" {
		return fmt.Errorf("%w: WHATSAPP_RECIPIENT is required", ErrInvalidConfig)
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for the postgres driver", ErrInvalidConfig)
		}
	case DriverRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("%w: REDIS_URL is required for the redis driver", ErrInvalidConfig)
		}
	case DriverDynamoDB:
		if c.Storage.DynamoTable == "" {
			return fmt.Errorf("%w: DYNAMO_TABLE is required for the dynamodb driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Storage.CartTTL < 0 {
		return fmt.Errorf("%w: cart ttl must not be negative", ErrInvalidConfig)
	}
	return nil
}

// KafkaEnabled reports whether any broker is configured
func (c Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

// LogSummary prints the effective settings without secrets
func (c Config) LogSummary(prefix string) {
	log.Printf("%s Shop: %s (%s)", prefix, c.Shop.Name, c.Shop.Currency)
	log.Printf("%s Storage: %s (namespace %s)", prefix, c.Storage.Driver, c.Storage.Namespace)
	if c.KafkaEnabled() {
		log.Printf("%s Kafka: %v topic %s", prefix, c.Kafka.Brokers, c.Kafka.Topic)
	} else {
		log.Printf("%s Kafka: disabled", prefix)
	}
	log.Printf("%s Handoff: %s/%s", prefix, strings.TrimRight(c.Handoff.BaseURL, "/"), c.Handoff.Recipient)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
