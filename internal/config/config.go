package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/school-console/internal/db"
)

type Config struct {
	Driver        db.Dialect
	DatabaseURL   string // для sqlite ":memory:" или путь к файлу
	HTTPAddr      string // пусто: HTTP не поднимаем
	LogLevel      string
	Env           string // dev|prod
	SentryDSN     string
	AuditInterval time.Duration // 0: периодический аудит выключен
	ExportDir     string
	Seed          uint64
}

// Load читает окружение. Первый аргумент командной строки, если есть,
// заменяет DATABASE_URL.
func Load(args []string) (*Config, error) {
	driver, ok := db.ParseDialect(os.Getenv("DATABASE_DRIVER"))
	if !ok {
		return nil, fmt.Errorf("DATABASE_DRIVER: unsupported %q", os.Getenv("DATABASE_DRIVER"))
	}

	audit, err := parseDuration(os.Getenv("AUDIT_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("AUDIT_INTERVAL: %w", err)
	}

	seed, err := parseSeed(os.Getenv("SEED"))
	if err != nil {
		return nil, fmt.Errorf("SEED: %w", err)
	}

	cfg := &Config{
		Driver:        driver,
		DatabaseURL:   getenv("DATABASE_URL", ":memory:"),
		HTTPAddr:      os.Getenv("HTTP_ADDR"),
		LogLevel:      getenv("LOG_LEVEL", "warn"),
		Env:           getenv("ENV", "dev"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		AuditInterval: audit,
		ExportDir:     getenv("EXPORT_DIR", os.TempDir()),
		Seed:          seed,
	}
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		cfg.DatabaseURL = strings.TrimSpace(args[0])
	}
	if cfg.Driver == db.Postgres && cfg.DatabaseURL == ":memory:" {
		return nil, fmt.Errorf("DATABASE_URL is required for postgres")
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative interval %s", d)
	}
	return d, nil
}

// parseSeed: пустая строка даёт случайное зерно от текущего времени.
func parseSeed(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uint64(time.Now().UnixNano()), nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad seed %q: %w", s, err)
	}
	return n, nil
}
