package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"stock-tracker.backend/internal/config"
	"stock-tracker.backend/internal/infrastructure/migrations"
	"stock-tracker.backend/internal/usecases"
	"stock-tracker.backend/pkg/redis"
)

const testSessionKey = "0000000000000000000000000000000000000000000000000000000000000000"

func withMainHooks(t *testing.T) {
	t.Helper()
	origLoadDotenv := loadDotenv
	origLoadCfg := loadCfg
	origInitLog := initLog
	origInitRedis := initRedis
	origOpenDB := openDB
	origOpenGorm := openGorm
	origMigrateUp := migrateUp
	origNewSessionStore := newSessionStore
	origNewGenerator := newGenerator
	origRunServer := runServer

	t.Cleanup(func() {
		loadDotenv = origLoadDotenv
		loadCfg = origLoadCfg
		initLog = origInitLog
		initRedis = origInitRedis
		openDB = origOpenDB
		openGorm = origOpenGorm
		migrateUp = origMigrateUp
		newSessionStore = origNewSessionStore
		newGenerator = origNewGenerator
		runServer = origRunServer
	})

	loadDotenv = func(...string) error { return nil }
	loadCfg = func() (*config.Config, error) { return baseTestConfig(), nil }
	initLog = func(string, string) {}
}

func baseTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "18080",
			Env:            config.EnvDevelopment,
			LogLevel:       "error",
			AppURL:         "http://localhost:3000",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: config.DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			DBName:  "stocktracker",
			SSLMode: "disable",
		},
		Redis: config.RedisConfig{URL: "redis://localhost:6379/0"},
		JWT: config.JWTConfig{
			Secret:        "secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{SessionEncryptionKey: testSessionKey},
		Auth: config.AuthConfig{
			OTPTTL:      10 * time.Minute,
			ResetSecret: "reset-secret",
			ResetTTL:    time.Hour,
			RateLimit:   100,
			RateWindow:  time.Minute,
		},
		AI:   config.AIConfig{Model: "gemini-2.0-flash", Timeout: time.Second},
		Jobs: config.JobsConfig{CleanupInterval: time.Hour},
	}
}

// useMiniredis points the shared redis client at an in-process server.
func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = redis.Close() })
	return mr
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sqliteGorm(db *sql.DB) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{Conn: db}, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	return migrations.NewRunner(db, migrations.DialectSQLite).Run(ctx, "up")
}

func TestRunMainProcess_ConfigError(t *testing.T) {
	withMainHooks(t)
	loadCfg = func() (*config.Config, error) { return nil, errors.New("bad env") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRunMainProcess_RedisInitError(t *testing.T) {
	withMainHooks(t)
	initRedis = func(string, string) error { return errors.New("redis down") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize redis")
}

func TestRunMainProcess_DBOpenError(t *testing.T) {
	withMainHooks(t)
	initRedis = func(string, string) error { return nil }
	openDB = func(config.DatabaseConfig) (*sql.DB, error) { return nil, errors.New("db open failed") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to database")
}

func TestRunMainProcess_MigrationError(t *testing.T) {
	withMainHooks(t)
	initRedis = func(string, string) error { return nil }
	openDB = func(config.DatabaseConfig) (*sql.DB, error) { return openSQLite(t), nil }
	loadCfg = func() (*config.Config, error) {
		cfg := baseTestConfig()
		cfg.Database.AutoMigrate = true
		return cfg, nil
	}
	migrateUp = func(context.Context, *sql.DB) error { return errors.New("dirty schema") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run migrations")
}

func TestRunMainProcess_SessionStoreError(t *testing.T) {
	withMainHooks(t)
	initRedis = func(string, string) error { return nil }
	openDB = func(config.DatabaseConfig) (*sql.DB, error) { return openSQLite(t), nil }
	openGorm = sqliteGorm
	newSessionStore = func(string) (*redis.SessionStore, error) { return nil, errors.New("bad session key") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session store")
}

func TestRunMainProcess_GeneratorError(t *testing.T) {
	withMainHooks(t)
	initRedis = func(string, string) error { return nil }
	openDB = func(config.DatabaseConfig) (*sql.DB, error) { return openSQLite(t), nil }
	openGorm = sqliteGorm
	newGenerator = func(context.Context, config.AIConfig) (usecases.TextGenerator, error) {
		return nil, errors.New("genai client failed")
	}

	assert.Error(t, runMainProcess())
}

func TestRunMainProcess_ServerRunError(t *testing.T) {
	withMainHooks(t)
	initRedis = func(string, string) error { return nil }
	openDB = func(config.DatabaseConfig) (*sql.DB, error) { return openSQLite(t), nil }
	openGorm = sqliteGorm
	runServer = func(context.Context, *http.Server) error { return errors.New("listen failed") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start server")
}

func TestRunMainProcess_SuccessPath(t *testing.T) {
	withMainHooks(t)
	initRedis = func(string, string) error {
		useMiniredis(t)
		return nil
	}
	openDB = func(config.DatabaseConfig) (*sql.DB, error) { return openSQLite(t), nil }
	openGorm = sqliteGorm
	loadCfg = func() (*config.Config, error) {
		cfg := baseTestConfig()
		cfg.Database.AutoMigrate = true
		return cfg, nil
	}
	migrateUp = migrateSQLite

	var addr string
	runServer = func(_ context.Context, srv *http.Server) error {
		addr = srv.Addr
		return nil
	}

	require.NoError(t, runMainProcess())
	assert.Equal(t, ":18080", addr)
}

func TestServeHTTP_ShutsDownOnCancel(t *testing.T) {
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NotFoundHandler(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveHTTP(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeHTTP_ListenError(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:-1", Handler: http.NotFoundHandler()}
	assert.Error(t, serveHTTP(context.Background(), srv))
}

func TestMain_ExitsOnInvalidConfig(t *testing.T) {
	if os.Getenv("STOCK_TRACKER_HELPER_PROCESS") == "1" {
		main()
		return
	}
	if testing.Short() {
		t.Skip("spawns a subprocess")
	}

	cmd := helperCommand(t, "TestMain_ExitsOnInvalidConfig",
		"STOCK_TRACKER_HELPER_PROCESS=1",
		"SESSION_ENCRYPTION_KEY=abc",
	)
	assert.Error(t, cmd.Run(), "expected helper process to exit non-zero")
}
