package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	RBAC     RBACConfig     `yaml:"rbac"`
}

type AppConfig struct {
	Env          string        `yaml:"env"`
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxRetries      int           `yaml:"max_retries"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
}

// KafkaConfig.OutboxRetention is how long relayed rows are kept; zero keeps
// them.
type KafkaConfig struct {
	Broker          string        `yaml:"broker"`
	StockGroupID    string        `yaml:"stock_group_id"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	OutboxBatch     int           `yaml:"outbox_batch"`
	OutboxRetention time.Duration `yaml:"outbox_retention"`
	ConnectRetries  int           `yaml:"connect_retries"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// RBACConfig.ModelPath is optional; the built-in domain model is used when
// it is empty.
type RBACConfig struct {
	ModelPath string `yaml:"model_path"`
}

// Load reads .env, then the optional YAML file at CONFIG_PATH, then applies
// environment overrides. Environment always wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Env:          "development",
			Port:         "3000",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Port:            "5432",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: time.Hour,
			MaxRetries:      5,
		},
		Kafka: KafkaConfig{
			StockGroupID:    "go-erp-stock-level",
			PollInterval:    3 * time.Second,
			OutboxBatch:     50,
			OutboxRetention: 7 * 24 * time.Hour,
			ConnectRetries:  5,
		},
	}
}

func (c *Config) applyEnv() {
	setString(&c.App.Env, "APP_ENV")
	setString(&c.App.Port, "PORT")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setInt(&c.Database.MaxRetries, "DB_MAX_RETRIES")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Kafka.Broker, "KAFKA_BROKER")
	setString(&c.Kafka.StockGroupID, "KAFKA_STOCK_GROUP_ID")
	setDuration(&c.Kafka.PollInterval, "OUTBOX_POLL_INTERVAL")
	setDuration(&c.Kafka.OutboxRetention, "OUTBOX_RETENTION")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.RBAC.ModelPath, "RBAC_MODEL_PATH")
}

func (c *Config) Validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("config: app.port must be set")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if c.Database.MaxRetries <= 0 {
		c.Database.MaxRetries = 1
	}
	if c.Kafka.OutboxBatch <= 0 {
		c.Kafka.OutboxBatch = 50
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN is the libpq keyword form used by the gorm postgres driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// URL is the form golang-migrate expects.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
