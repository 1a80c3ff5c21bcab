package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DatabaseURL         string
	JWTSecret           string
	Environment         string
	MigrationsDir       string
	RunMigrations       bool
	RunSeed             bool
	SeedAdminEmail      string
	SeedAdminPassword   string
	SeedSampleData      bool
	MaxBodyBytes        int64
	RateLimitPerMinute  int
	CORSAllowedOrigins  []string
	CompanyName         string
	CompanyAddress      string
	CompanyRegistration string
	CompanyLogoPath     string
}

func Load() Config {
	// Best effort; production supplies real env vars.
	_ = godotenv.Load()

	return Config{
		Addr:                getEnv("APP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		Environment:         getEnv("APP_ENV", "development"),
		MigrationsDir:       getEnv("MIGRATIONS_DIR", "migrations"),
		RunMigrations:       getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:             getEnvBool("RUN_SEED", true),
		SeedAdminEmail:      getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:   getEnv("SEED_ADMIN_PASSWORD", ""),
		SeedSampleData:      getEnvBool("SEED_SAMPLE_DATA", false),
		MaxBodyBytes:        int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:  getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		CORSAllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", "*"),
		CompanyName:         getEnv("COMPANY_NAME", "Leogics Solutions (M) Sdn. Bhd."),
		CompanyAddress:      getEnv("COMPANY_ADDRESS", "06-01 & 06M-01, Level 6 & 6M, Menara EcoWorld, Bukit Bintang City Centre, 2, Jln Hang Tuah, Pudu, 55100, Wilayah Persekutuan Kuala Lumpur"),
		CompanyRegistration: getEnv("COMPANY_REGISTRATION", "Business registration number: 202501000353 (1601768-D)"),
		CompanyLogoPath:     getEnv("COMPANY_LOGO_PATH", "assets/leogics-logo.png"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key, fallback string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}
