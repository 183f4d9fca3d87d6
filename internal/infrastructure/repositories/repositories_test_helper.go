package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stock-tracker.backend/internal/infrastructure/migrations"
)

// newTestDB opens an empty in-memory database; queries against it fail with
// missing tables.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Dialector{Conn: openTestSQL(t)}, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err, "open sqlite")
	return db
}

// newMigratedDB applies the embedded goose migrations before handing out the db.
func newMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB := openTestSQL(t)
	require.NoError(t, migrations.NewRunner(sqlDB, migrations.DialectSQLite).Run(context.Background(), "up"), "migrate sqlite")

	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err, "open sqlite")
	return db
}

func openTestSQL(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	sqlDB, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err, "open sqlite")
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}
