package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jdziat/simple-serial-queue/pkg/core"
)

// Driver names accepted by OpenBackend.
const (
	DriverGorm     = "gorm"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Backend is a core.Backend that owns a connection and must be closed.
type Backend interface {
	core.Backend
	Close() error
}

// OpenBackend opens the backend named by driver.
//
//   - "gorm": GORM over mattn/go-sqlite3, dsn is a file path
//   - "sqlite": pure-Go SQLite, dsn is a file path
//   - "postgres": GORM over PostgreSQL, dsn is a connection string
//   - "memory": volatile, dsn is ignored
func OpenBackend(driver, dsn string, opts ...Option) (Backend, error) {
	switch driver {
	case DriverGorm, "":
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("open gorm sqlite db: %w", err)
		}
		if err := ConfigurePool(db); err != nil {
			return nil, err
		}
		if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
		if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
		return NewGormStorage(db, opts...), nil
	case DriverPostgres:
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres db: %w", err)
		}
		if err := ConfigurePool(db); err != nil {
			return nil, err
		}
		return NewGormStorage(db, opts...), nil
	case DriverSQLite:
		return OpenSQLite(dsn, opts...)
	case DriverMemory:
		return NewMemoryStorage(opts...), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
