package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	SMTP     SMTPConfig     `yaml:"smtp"`
}

type HTTPConfig struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":3001"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"5s"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-default:"*"`
	SwaggerEnabled  bool          `yaml:"swagger_enabled" env:"HTTP_SWAGGER_ENABLED"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"flight_booking"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	MaxConns int32  `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"10"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type KafkaConfig struct {
	Enabled            bool     `yaml:"enabled" env:"KAFKA_ENABLED"`
	Brokers            []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	BookingTopic       string   `yaml:"booking_topic" env-default:"bookings"`
	NotificationsTopic string   `yaml:"notifications_topic" env-default:"booking-notifications"`
	GroupID            string   `yaml:"group_id" env-default:"ticket-mailer"`
}

type BookingConfig struct {
	DefaultUserID        string        `yaml:"default_user_id" env-default:"user_001"`
	DefaultWalletBalance int64         `yaml:"default_wallet_balance" env-default:"50000"`
	// TrustClientPrice skips re-quoting the flight at booking time.
	TrustClientPrice     bool          `yaml:"trust_client_price" env:"BOOKING_TRUST_CLIENT_PRICE"`
	LockTTL              time.Duration `yaml:"lock_ttl" env-default:"10s"`
	FlightsCacheTTL      time.Duration `yaml:"flights_cache_ttl" env-default:"30s"`
}

type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM" env-default:"tickets@flightbooking.local"`
}

// LoadConfig reads the YAML file at path and applies environment overrides.
// Variables from a .env file in the working directory are loaded first when present.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Booking.DefaultUserID == "" {
		return errors.New("booking.default_user_id is required")
	}
	if c.Booking.DefaultWalletBalance < 0 {
		return errors.New("booking.default_wallet_balance must not be negative")
	}
	return nil
}
