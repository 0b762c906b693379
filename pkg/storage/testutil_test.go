package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jdziat/simple-serial-queue/pkg/core"
)

// openTestDB opens a database for tests.
// When TEST_DATABASE_URL is set it connects to PostgreSQL; otherwise it
// opens a fresh SQLite file in a temp dir.
// PostgreSQL connections are pool-limited and the named tables are dropped
// before and after the test.
func openTestDB(t *testing.T, tables ...string) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		require.NoError(t, err, "open postgres test db")

		sqlDB, err := db.DB()
		require.NoError(t, err, "get underlying sql.DB")
		sqlDB.SetMaxOpenConns(2)
		sqlDB.SetMaxIdleConns(1)

		dropTables(db, tables)
		t.Cleanup(func() {
			dropTables(db, tables)
			_ = sqlDB.Close()
		})
		return db
	}

	path := filepath.Join(t.TempDir(), "queue.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, ConfigurePool(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func dropTables(db *gorm.DB, tables []string) {
	for _, tbl := range tables {
		db.Exec(`DROP TABLE IF EXISTS "` + tbl + `"`)
	}
}

// fakeClock is a settable time source.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Set(t time.Time) { c.now = t }

// backendCase names a backend constructor for table-driven tests.
type backendCase struct {
	name string
	open func(t *testing.T, opts ...Option) core.Backend
}

func backendCases() []backendCase {
	return []backendCase{
		{
			name: "gorm",
			open: func(t *testing.T, opts ...Option) core.Backend {
				return NewGormStorage(openTestDB(t, "items", "other"), opts...)
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T, opts ...Option) core.Backend {
				s, err := OpenSQLite(filepath.Join(t.TempDir(), "queue.db"), opts...)
				require.NoError(t, err)
				t.Cleanup(func() { _ = s.Close() })
				return s
			},
		},
		{
			name: "memory",
			open: func(t *testing.T, opts ...Option) core.Backend {
				return NewMemoryStorage(opts...)
			},
		},
	}
}

func openStore(t *testing.T, b core.Backend, name string) core.Store {
	t.Helper()
	st, err := b.Open(context.Background(), name)
	require.NoError(t, err)
	return st
}
