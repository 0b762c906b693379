package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jdziat/simple-serial-queue/pkg/core"
	"github.com/jdziat/simple-serial-queue/pkg/security"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// SQLiteStorage is a pure-Go SQLite Backend built directly on database/sql.
type SQLiteStorage struct {
	db   *sql.DB
	path string
	opts options
}

// OpenSQLite opens or creates the SQLite database at path. Use ":memory:"
// for a throwaway database.
func OpenSQLite(path string, opts ...Option) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	applyPool(db, SQLitePoolConfig(), nil)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	return &SQLiteStorage{db: db, path: path, opts: buildOptions(opts)}, nil
}

// Path returns the database path the storage was opened with.
func (s *SQLiteStorage) Path() string { return s.path }

// Open creates the table for name if needed and returns its store.
func (s *SQLiteStorage) Open(ctx context.Context, name string) (core.Store, error) {
	if err := security.ValidateStoreName(name); err != nil {
		return nil, core.WrapStorage("open", name, err)
	}

	st := &sqliteStore{
		db:     s.db,
		name:   name,
		now:    s.opts.now,
		logger: s.opts.logger.With("store", name),
	}

	schema := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            enqueued_at INTEGER NOT NULL,
            payload TEXT NOT NULL
        )`, name),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "idx_%s_order" ON "%s" (enqueued_at, id)`, name, name),
	}
	for _, stmt := range schema {
		if err := st.exec(ctx, stmt); err != nil {
			return nil, core.WrapStorage("migrate", name, err)
		}
	}

	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COALESCE(MAX(enqueued_at), 0) FROM "%s"`, name))
	if err := row.Scan(&st.newest); err != nil {
		return nil, core.WrapStorage("open", name, err)
	}
	return st, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type sqliteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	name   string
	now    func() time.Time
	logger *slog.Logger
	newest int64
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *sqliteStore) exec(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

func (s *sqliteStore) Name() string { return s.name }

func (s *sqliteStore) Append(ctx context.Context, payload string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := enqueueStamp(s.now(), s.newest)
	var id int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO "%s" (enqueued_at, payload) VALUES (?, ?)`, s.name),
			stamp, payload)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, core.WrapStorage("append", s.name, err)
	}
	s.newest = stamp
	return id, nil
}

func (s *sqliteStore) PeekEarliest(ctx context.Context) (*core.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.earliest(ctx)
	if err != nil {
		return nil, core.WrapStorage("peek", s.name, err)
	}
	return item, nil
}

func (s *sqliteStore) earliest(ctx context.Context) (*core.WorkItem, error) {
	var item core.WorkItem
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT id, enqueued_at, payload FROM "%s" ORDER BY enqueued_at ASC, id ASC LIMIT 1`, s.name),
		).Scan(&item.ID, &item.EnqueuedAt, &item.Payload)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *sqliteStore) RemoveEarliest(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.earliest(ctx)
	if err != nil {
		return core.WrapStorage("remove earliest", s.name, err)
	}
	if item == nil {
		s.logger.Debug("remove earliest on empty store")
		return nil
	}
	err = s.exec(ctx, fmt.Sprintf(`DELETE FROM "%s" WHERE id = ?`, s.name), item.ID)
	return core.WrapStorage("remove earliest", s.name, err)
}

func (s *sqliteStore) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.exec(ctx, fmt.Sprintf(`DELETE FROM "%s" WHERE id = ?`, s.name), id)
	return core.WrapStorage("remove", s.name, err)
}

func (s *sqliteStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, s.name)).Scan(&n)
	})
	if err != nil {
		return 0, core.WrapStorage("count", s.name, err)
	}
	return n, nil
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.exec(ctx, fmt.Sprintf(`DELETE FROM "%s"`, s.name))
	return core.WrapStorage("clear", s.name, err)
}

func (s *sqliteStore) List(ctx context.Context, limit int) ([]*core.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := fmt.Sprintf(`SELECT id, enqueued_at, payload FROM "%s" ORDER BY enqueued_at ASC, id ASC`, s.name)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var items []*core.WorkItem
	err := retryOnBusy(ctx, func() error {
		items = items[:0]
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var item core.WorkItem
			if err := rows.Scan(&item.ID, &item.EnqueuedAt, &item.Payload); err != nil {
				return err
			}
			items = append(items, &item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, core.WrapStorage("list", s.name, err)
	}
	return items, nil
}

// Close is a no-op; the database belongs to the SQLiteStorage.
func (s *sqliteStore) Close() error { return nil }

var (
	_ core.Backend = (*SQLiteStorage)(nil)
	_ core.Store   = (*sqliteStore)(nil)
	_ core.Lister  = (*sqliteStore)(nil)
)
