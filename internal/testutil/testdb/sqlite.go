package testdb

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Spok95/school-console/internal/db"
)

// NewSQLite открывает чистую in-memory базу с применёнными миграциями.
// Закрывается автоматически в t.Cleanup.
func NewSQLite(t testing.TB) *db.Store {
	t.Helper()
	ctx := context.Background()

	database, err := db.Open(ctx, db.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := db.Migrate(ctx, database, db.SQLite); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db.New(database, db.SQLite, zaptest.NewLogger(t))
}
