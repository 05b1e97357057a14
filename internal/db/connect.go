package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Open подключается к базе. Для SQLite ":memory:" или путь к файлу,
// для Postgres: обычный DATABASE_URL.
func Open(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	if dialect == SQLite {
		dsn = sqliteDSN(dsn)
	}
	database, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == SQLite {
		// одно соединение: ":memory:" живёт ровно столько, сколько соединение,
		// а внешние ключи включаются на уровне соединения
		database.SetMaxOpenConns(1)
		database.SetMaxIdleConns(1)
		database.SetConnMaxLifetime(0)
		database.SetConnMaxIdleTime(0)
	}
	if err := database.PingContext(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return database, nil
}

func sqliteDSN(dsn string) string {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	switch {
	case dsn == "" || dsn == ":memory:":
		return "file::memory:?" + pragmas
	case strings.HasPrefix(dsn, "file:"):
		if strings.Contains(dsn, "?") {
			return dsn + "&" + pragmas
		}
		return dsn + "?" + pragmas
	default:
		return "file:" + dsn + "?" + pragmas
	}
}
