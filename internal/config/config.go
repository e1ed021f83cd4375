package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port        string
	DBDriver    string
	DatabaseDSN string
	SQLitePath  string
	JWTSecret   string
	JWTTTL      time.Duration
	LogLevel    string
	Location    *time.Location
	BackupDir   string

	SeedOwnerUsername string
	SeedOwnerPassword string
}

// Load reads configuration from the environment, with .env loaded first when present.
// Precedence: explicit env var > .env file > default.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:              getEnv("PORT", "3000"),
		DBDriver:          getEnv("DB_DRIVER", DriverSQLite),
		SQLitePath:        getEnv("SQLITE_PATH", "tindahan.db"),
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		JWTTTL:            time.Duration(getInt("JWT_TTL_HOURS", 24)) * time.Hour,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		BackupDir:         getEnv("BACKUP_DIR", "backups"),
		SeedOwnerUsername: getEnv("SEED_OWNER_USERNAME", "owner"),
		SeedOwnerPassword: getEnv("SEED_OWNER_PASSWORD", "owner123"),
	}

	cfg.DatabaseDSN = os.Getenv("DATABASE_URL")
	if cfg.DatabaseDSN == "" && cfg.DBDriver == DriverPostgres {
		cfg.DatabaseDSN = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "postgres"),
			os.Getenv("DB_PASSWORD"),
			getEnv("DB_NAME", "tindahan"),
			getEnv("DB_PORT", "5432"),
		)
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return cfg, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		return cfg, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
