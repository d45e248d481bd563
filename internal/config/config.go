package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Report     ReportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int32
	MinConns     int32
	StoreTimeout time.Duration
}

// RedisConfig is optional. An empty Addr disables idempotency keys.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
	AcceptableSkew   time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	ClockRatePerMinute int
}

type AttendanceConfig struct {
	AutoApproveAfterDays  int
	AutoApproveInterval   time.Duration
	HalfDayHours          float64
	StatusRefreshInterval time.Duration
}

type ReportConfig struct {
	CycleStartDay int
}

// Load reads the environment, after applying an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	p := &parser{}
	config := &Config{}

	config.Database = DatabaseConfig{
		Host:         getEnv("DB_HOST", "localhost"),
		Port:         p.int("DB_PORT", 5432),
		User:         getEnv("DB_USER", "postgres"),
		Password:     getEnv("DB_PASSWORD", ""),
		Name:         getEnv("DB_NAME", "cmlabs-hris"),
		SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		MaxConns:     int32(p.int("DB_MAX_CONNS", 25)),
		MinConns:     int32(p.int("DB_MIN_CONNS", 5)),
		StoreTimeout: p.duration("STORE_TIMEOUT", 5*time.Second),
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       p.int("REDIS_DB", 0),
	}

	config.App = AppConfig{
		Port:               p.int("APP_PORT", 8080),
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		ClockRatePerMinute: p.int("CLOCK_RATE_PER_MINUTE", 10),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: p.duration("JWT_ACCESS_EXPIRATION_TIME", time.Hour),
		AcceptableSkew:   p.duration("JWT_ACCEPTABLE_SKEW", 30*time.Second),
	}

	config.Attendance = AttendanceConfig{
		AutoApproveAfterDays:  p.int("ATTENDANCE_AUTO_APPROVE_AFTER_DAYS", 3),
		AutoApproveInterval:   p.duration("ATTENDANCE_AUTO_APPROVE_INTERVAL", time.Hour),
		HalfDayHours:          p.float("ATTENDANCE_HALF_DAY_HOURS", 4),
		StatusRefreshInterval: p.duration("ATTENDANCE_STATUS_REFRESH_INTERVAL", 30*time.Second),
	}

	config.Report = ReportConfig{
		CycleStartDay: p.int("REPORT_CYCLE_START_DAY", 26),
	}

	if p.err != nil {
		return nil, p.err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Database.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	if c.Attendance.AutoApproveAfterDays < 1 {
		return fmt.Errorf("ATTENDANCE_AUTO_APPROVE_AFTER_DAYS must be at least 1")
	}
	if c.Attendance.AutoApproveInterval <= 0 {
		return fmt.Errorf("ATTENDANCE_AUTO_APPROVE_INTERVAL must be positive")
	}
	if c.Attendance.HalfDayHours <= 0 || c.Attendance.HalfDayHours > 24 {
		return fmt.Errorf("ATTENDANCE_HALF_DAY_HOURS must be within (0, 24]")
	}
	if c.Report.CycleStartDay < 1 || c.Report.CycleStartDay > 31 {
		return fmt.Errorf("REPORT_CYCLE_START_DAY must be within 1..31")
	}
	if c.App.ClockRatePerMinute < 1 {
		return fmt.Errorf("CLOCK_RATE_PER_MINUTE must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// parser keeps the first conversion error so Load reports one clear message.
type parser struct {
	err error
}

func (p *parser) int(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
