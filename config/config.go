package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Redis     RedisConfig     `yaml:"redis"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Booking   BookingConfig   `yaml:"booking"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	GinMode        string   `yaml:"ginMode"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type DatabaseConfig struct {
	URL          string `yaml:"url"`
	AutoMigrate  bool   `yaml:"autoMigrate"`
	MaxIdleConns int    `yaml:"maxIdleConns"`
	MaxOpenConns int    `yaml:"maxOpenConns"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpiryHours int    `yaml:"expiryHours"`
}

type RedisConfig struct {
	Addr                string `yaml:"addr"`
	Password            string `yaml:"password"`
	WriteQuotaPerMinute int    `yaml:"writeQuotaPerMinute"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type TelemetryConfig struct {
	ServiceName  string `yaml:"serviceName"`
	OTLPEndpoint string `yaml:"otlpEndpoint"`
	Insecure     bool   `yaml:"insecure"`
}

// BookingConfig controls the unified booking listing.
type BookingConfig struct {
	// StrictStatus makes an unmapped native status fail the request instead of
	// falling back to pending. Unless set explicitly it is on outside release
	// mode.
	StrictStatus    bool   `yaml:"-"`
	StrictStatusSet *bool  `yaml:"strictStatus"`
	DefaultPageSize int    `yaml:"defaultPageSize"`
	MaxPageSize     int    `yaml:"maxPageSize"`
	MaxWindow       int    `yaml:"maxWindow"`
	Timezone        string `yaml:"timezone"`
}

var AppConfig *Config

// Load builds AppConfig from defaults, the optional CONFIG_FILE yaml and the
// environment, in that order of precedence.
func Load() {
	cfg, err := LoadFrom(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Printf("⚠️ Could not read config file, using defaults and environment: %v", err)
		cfg = defaults()
		applyEnv(cfg)
	}
	AppConfig = cfg
}

// LoadFrom is Load without the global assignment. An empty path skips the
// yaml layer.
func LoadFrom(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			GinMode:        "debug",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			MaxIdleConns: 10,
			MaxOpenConns: 100,
		},
		JWT: JWTConfig{
			Secret:      "your-super-secret-jwt-key-change-this-in-production",
			ExpiryHours: 24,
		},
		Redis: RedisConfig{
			WriteQuotaPerMinute: 60,
		},
		RabbitMQ: RabbitMQConfig{
			Exchange: "casaligan.bookings",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "casaligan-admin-server",
		},
		Booking: BookingConfig{
			DefaultPageSize: 50,
			MaxPageSize:     500,
			MaxWindow:       5000,
			Timezone:        "Asia/Manila",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.GinMode = getEnv("GIN_MODE", cfg.Server.GinMode)
	cfg.Server.AllowedOrigins = getEnvAsList("ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)

	cfg.Database.URL = getEnv("DB_URL", cfg.Database.URL)
	cfg.Database.AutoMigrate = getEnvAsBool("DB_AUTO_MIGRATE", cfg.Database.AutoMigrate)
	cfg.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)

	cfg.JWT.Secret = getEnv("JWT_SECRET", cfg.JWT.Secret)
	cfg.JWT.ExpiryHours = getEnvAsInt("JWT_EXPIRY_HOURS", cfg.JWT.ExpiryHours)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.WriteQuotaPerMinute = getEnvAsInt("BOOKING_WRITE_QUOTA_PER_MIN", cfg.Redis.WriteQuotaPerMinute)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.Exchange = getEnv("RABBITMQ_EXCHANGE", cfg.RabbitMQ.Exchange)

	cfg.Telemetry.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
	cfg.Telemetry.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
	cfg.Telemetry.Insecure = getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Telemetry.Insecure)

	cfg.Booking.StrictStatus = cfg.Server.GinMode != "release"
	if cfg.Booking.StrictStatusSet != nil {
		cfg.Booking.StrictStatus = *cfg.Booking.StrictStatusSet
	}
	cfg.Booking.StrictStatus = getEnvAsBool("BOOKING_STRICT_STATUS", cfg.Booking.StrictStatus)
	cfg.Booking.DefaultPageSize = getEnvAsInt("BOOKING_DEFAULT_PAGE_SIZE", cfg.Booking.DefaultPageSize)
	cfg.Booking.MaxPageSize = getEnvAsInt("BOOKING_MAX_PAGE_SIZE", cfg.Booking.MaxPageSize)
	cfg.Booking.MaxWindow = getEnvAsInt("BOOKING_MAX_WINDOW", cfg.Booking.MaxWindow)
	cfg.Booking.Timezone = getEnv("BOOKING_TIMEZONE", cfg.Booking.Timezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
