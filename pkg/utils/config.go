package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Email     EmailConfig
	Redis     RedisConfig
	Booking   BookingConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	ExposeErrors   bool
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// RedisConfig selects the shared slot cache. An empty Addr falls back to the
// in-process cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	SlotTTL  time.Duration
}

type BookingConfig struct {
	DailyLimit       int
	CountAllStatuses bool
	SlotActiveOnly   bool
	OpenTime         string
	CloseTime        string
	SlotMinutes      int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type JobsConfig struct {
	SessionCleanupSpec string
	CompletionSweep    bool
	CompletionSpec     string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "clinic-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("APP_EXPOSE_ERRORS", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_AUTO_MIGRATE", false)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_SLOT_TTL", "30s")
	viper.SetDefault("BOOKING_DAILY_LIMIT", 5)
	viper.SetDefault("BOOKING_COUNT_ALL_STATUSES", true)
	viper.SetDefault("BOOKING_SLOT_ACTIVE_ONLY", false)
	viper.SetDefault("BOOKING_OPEN_TIME", "09:00")
	viper.SetDefault("BOOKING_CLOSE_TIME", "18:00")
	viper.SetDefault("BOOKING_SLOT_MINUTES", 30)
	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("JOB_SESSION_CLEANUP", "0 3 * * *")
	viper.SetDefault("JOB_COMPLETION_SWEEP", false)
	viper.SetDefault("JOB_COMPLETION_SPEC", "5 0 * * *")

	viper.AutomaticEnv()

	// .env is optional, plain environment variables are enough in containers
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			ExposeErrors:   viper.GetBool("APP_EXPOSE_ERRORS"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASS"),
			MaxConns:    viper.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			SlotTTL:  viper.GetDuration("REDIS_SLOT_TTL"),
		},
		Booking: BookingConfig{
			DailyLimit:       viper.GetInt("BOOKING_DAILY_LIMIT"),
			CountAllStatuses: viper.GetBool("BOOKING_COUNT_ALL_STATUSES"),
			SlotActiveOnly:   viper.GetBool("BOOKING_SLOT_ACTIVE_ONLY"),
			OpenTime:         viper.GetString("BOOKING_OPEN_TIME"),
			CloseTime:        viper.GetString("BOOKING_CLOSE_TIME"),
			SlotMinutes:      viper.GetInt("BOOKING_SLOT_MINUTES"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		Jobs: JobsConfig{
			SessionCleanupSpec: viper.GetString("JOB_SESSION_CLEANUP"),
			CompletionSweep:    viper.GetBool("JOB_COMPLETION_SWEEP"),
			CompletionSpec:     viper.GetString("JOB_COMPLETION_SPEC"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
