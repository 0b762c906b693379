package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/jdziat/simple-serial-queue/pkg/core"
	"github.com/jdziat/simple-serial-queue/pkg/security"
)

// GormStorage is a Backend that keeps each logical queue in its own table.
type GormStorage struct {
	db   *gorm.DB
	opts options
}

// NewGormStorage creates a new GORM-backed storage backend.
func NewGormStorage(db *gorm.DB, opts ...Option) *GormStorage {
	return &GormStorage{db: db, opts: buildOptions(opts)}
}

// DB returns the underlying *gorm.DB.
func (s *GormStorage) DB() *gorm.DB {
	return s.db
}

// IsSQLite reports whether the backend talks to SQLite.
func (s *GormStorage) IsSQLite() bool {
	return s.db != nil && s.db.Dialector != nil && s.db.Dialector.Name() == "sqlite"
}

// Open creates the table for name if needed and returns its store.
func (s *GormStorage) Open(ctx context.Context, name string) (core.Store, error) {
	if err := security.ValidateStoreName(name); err != nil {
		return nil, core.WrapStorage("open", name, err)
	}
	if s.db == nil {
		return nil, core.WrapStorage("open", name, errors.New("nil database"))
	}

	db := s.db.WithContext(ctx)
	if err := db.Table(name).AutoMigrate(&core.WorkItem{}); err != nil {
		return nil, core.WrapStorage("migrate", name, err)
	}
	index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "idx_%s_order" ON "%s" (enqueued_at, id)`, name, name)
	if err := db.Exec(index).Error; err != nil {
		return nil, core.WrapStorage("migrate", name, err)
	}

	var newest int64
	err := db.Table(name).Select("COALESCE(MAX(enqueued_at), 0)").Scan(&newest).Error
	if err != nil {
		return nil, core.WrapStorage("open", name, err)
	}

	return &gormStore{
		db:     s.db,
		name:   name,
		now:    s.opts.now,
		logger: s.opts.logger.With("store", name),
		newest: newest,
	}, nil
}

// Close closes the underlying database connection.
func (s *GormStorage) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormStore struct {
	mu     sync.Mutex
	db     *gorm.DB
	name   string
	now    func() time.Time
	logger *slog.Logger
	newest int64
}

func (s *gormStore) table(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.name)
}

func (s *gormStore) Name() string { return s.name }

func (s *gormStore) Append(ctx context.Context, payload string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := core.WorkItem{
		EnqueuedAt: enqueueStamp(s.now(), s.newest),
		Payload:    payload,
	}
	if err := s.table(ctx).Create(&item).Error; err != nil {
		return 0, core.WrapStorage("append", s.name, err)
	}
	s.newest = item.EnqueuedAt
	return item.ID, nil
}

func (s *gormStore) PeekEarliest(ctx context.Context) (*core.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.earliest(s.table(ctx))
	if err != nil {
		return nil, core.WrapStorage("peek", s.name, err)
	}
	return item, nil
}

func (s *gormStore) earliest(tx *gorm.DB) (*core.WorkItem, error) {
	var item core.WorkItem
	err := tx.Order("enqueued_at ASC, id ASC").Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *gormStore) RemoveEarliest(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.earliest(tx.Table(s.name))
		if err != nil {
			return err
		}
		if item == nil {
			s.logger.Debug("remove earliest on empty store")
			return nil
		}
		return tx.Table(s.name).Delete(&core.WorkItem{}, item.ID).Error
	})
	return core.WrapStorage("remove earliest", s.name, err)
}

func (s *gormStore) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.table(ctx).Delete(&core.WorkItem{}, id).Error
	return core.WrapStorage("remove", s.name, err)
}

func (s *gormStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if err := s.table(ctx).Count(&n).Error; err != nil {
		return 0, core.WrapStorage("count", s.name, err)
	}
	return n, nil
}

func (s *gormStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.table(ctx).Where("1 = 1").Delete(&core.WorkItem{}).Error
	return core.WrapStorage("clear", s.name, err)
}

func (s *gormStore) List(ctx context.Context, limit int) ([]*core.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.table(ctx).Order("enqueued_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var items []*core.WorkItem
	if err := q.Find(&items).Error; err != nil {
		return nil, core.WrapStorage("list", s.name, err)
	}
	return items, nil
}

// Close is a no-op; the database belongs to the GormStorage.
func (s *gormStore) Close() error { return nil }

var (
	_ core.Backend = (*GormStorage)(nil)
	_ core.Store   = (*gormStore)(nil)
	_ core.Lister  = (*gormStore)(nil)
)
