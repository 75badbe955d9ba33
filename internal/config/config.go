package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Kraken   KrakenConfig
	Supabase SupabaseConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Mirror   MirrorConfig
}

type ServerConfig struct {
	Port          string        `validate:"required,numeric"`
	ReadTimeout   time.Duration `validate:"gt=0"`
	WriteTimeout  time.Duration `validate:"gt=0"`
	MaxUploadSize int64         `validate:"gt=0"`
}

type KrakenConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string        `validate:"required,url"`
	Timeout   time.Duration `validate:"gt=0"`

	// CallbackURL is where the service posts finished jobs, normally this
	// server's /api/v1/callbacks. Empty means uploads wait for the result.
	CallbackURL string `validate:"omitempty,url"`
}

type SupabaseConfig struct {
	URL    string `validate:"omitempty,url"`
	KEY    string
	BUCKET string
}

type RedisConfig struct {
	Addr        string `validate:"required,hostname_port"`
	Password    string
	DB          int           `validate:"gte=0"`
	DeliveryTTL time.Duration `validate:"gt=0"`
}

type RabbitMQConfig struct {
	URL   string `validate:"omitempty,url"`
	Queue string `validate:"required"`
}

type MirrorConfig struct {
	Enabled     bool
	MaxFileSize int64 `validate:"gt=0"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			ReadTimeout:   getDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  getDuration("WRITE_TIMEOUT", 10*time.Second),
			MaxUploadSize: getEnvAsInt64("MAX_UPLOAD_SIZE", 32*1024*1024), // 32MB
		},
		Kraken: KrakenConfig{
			APIKey:      getEnv("KRAKEN_API_KEY", ""),
			APISecret:   getEnv("KRAKEN_API_SECRET", ""),
			BaseURL:     getEnv("KRAKEN_BASE_URL", "https://api.kraken.io"),
			Timeout:     getDuration("KRAKEN_TIMEOUT", 3*time.Second),
			CallbackURL: getEnv("KRAKEN_CALLBACK_URL", ""),
		},
		Supabase: SupabaseConfig{
			URL:    getEnv("SUPABASE_URL", ""),
			KEY:    getEnv("SUPABASE_KEY", ""),
			BUCKET: getEnv("SUPABASE_BUCKET", ""),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", "localhost:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			DeliveryTTL: getDuration("CALLBACK_TTL", 24*time.Hour),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   getEnv("RABBITMQ_URL", ""),
			Queue: getEnv("CALLBACK_QUEUE", "kraken_callbacks"),
		},
		Mirror: MirrorConfig{
			Enabled:     getEnvAsBool("MIRROR_RESULTS", false),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 32*1024*1024), // 32MB
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints and the settings that only matter when a
// feature is switched on.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Mirror.Enabled && (cfg.Supabase.URL == "" || cfg.Supabase.BUCKET == "") {
		return fmt.Errorf("invalid configuration: MIRROR_RESULTS requires SUPABASE_URL and SUPABASE_BUCKET")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
