package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Survey    SurveyConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port         string `validate:"required,numeric"`
	Env          string `validate:"oneof=development production test"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Driver          string `validate:"oneof=mysql postgres"`
	DSN             string `validate:"required"`
	MaxIdleConns    int    `validate:"min=0"`
	MaxOpenConns    int    `validate:"min=1"`
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string        `validate:"required,min=16"`
	Expiry time.Duration `validate:"required"`
	Issuer string        `validate:"required"`
}

// AdminConfig describes the bootstrap admin seeded on first boot.
// An empty Password makes the seeder generate one.
type AdminConfig struct {
	Name     string
	Email    string `validate:"required"`
	Password string
}

type SurveyConfig struct {
	TimerDefaultDays int `validate:"min=1"`
	DrawPrize        string
	SeedQuestions    bool
}

// RedisConfig enables the shared rate limiter when URL is set.
type RedisConfig struct {
	URL string
}

type RateLimitConfig struct {
	Requests int           `validate:"min=1"`
	Window   time.Duration `validate:"required"`
}

type CORSConfig struct {
	AllowOrigins []string `validate:"min=1"`
}

type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "mysql"),
			DSN:             getEnv("DB_DSN", "kyp:kyp@tcp(localhost:3306)/knowyourplate?charset=utf8mb4&parseTime=True&loc=UTC"),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me-in-production-please"),
			Expiry: getDuration("JWT_EXPIRY", 7*24*time.Hour),
			Issuer: getEnv("JWT_ISSUER", "knowyourplate"),
		},
		Admin: AdminConfig{
			Name:     getEnv("ADMIN_NAME", "Admin User"),
			Email:    getEnv("ADMIN_EMAIL", "admin@knowyourplate.local"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Survey: SurveyConfig{
			TimerDefaultDays: getInt("TIMER_DEFAULT_DAYS", 7),
			DrawPrize:        getEnv("DRAW_PRIZE", "₹500 Amazon Voucher"),
			SeedQuestions:    getBool("SEED_QUESTIONS", true),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		RateLimit: RateLimitConfig{
			Requests: getInt("RATE_LIMIT_REQUESTS", 100),
			Window:   getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		CORS: CORSConfig{
			AllowOrigins: getList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Validate checks the loaded values against their struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
