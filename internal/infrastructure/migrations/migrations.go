// Package migrations embeds the SQL schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"stock-tracker.backend/pkg/logger"
)

//go:embed sql/*.sql
var embedded embed.FS

const (
	dir = "sql"

	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// goose keeps its base FS, dialect and logger in package globals.
var gooseMu sync.Mutex

// Runner applies the embedded migrations to one database.
type Runner struct {
	db      *sql.DB
	dialect string
}

func NewRunner(db *sql.DB, dialect string) *Runner {
	return &Runner{db: db, dialect: dialect}
}

// Run executes up, down or status.
func (r *Runner) Run(ctx context.Context, command string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := r.prepare(); err != nil {
		return err
	}

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, r.db, dir)
	case "down":
		err = goose.DownContext(ctx, r.db, dir)
	case "status":
		err = goose.StatusContext(ctx, r.db, dir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Version reports the current schema version.
func (r *Runner) Version(ctx context.Context) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := r.prepare(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, r.db)
}

func (r *Runner) prepare() error {
	goose.SetBaseFS(embedded)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(r.dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return nil
}

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	logger.GetLogger().Sugar().Infof(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	logger.GetLogger().Sugar().Errorf(format, v...)
}
