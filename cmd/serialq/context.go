package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"

	"github.com/jdziat/simple-serial-queue/pkg/config"
	"github.com/jdziat/simple-serial-queue/pkg/core"
	"github.com/jdziat/simple-serial-queue/pkg/storage"
)

type commandContext struct {
	configFlag *string
	storeFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, storeFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		storeFlag:  storeFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.storeFlag != nil && strings.TrimSpace(*c.storeFlag) != "" {
			cfg.Store.Name = strings.TrimSpace(*c.storeFlag)
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return slog.Default()
	}
	return cfg.Logger()
}

// withStore opens the configured store for reading.
func (c *commandContext) withStore(ctx context.Context, fn func(core.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	backend, err := cfg.OpenBackend(storage.WithLogger(c.logger()))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer backend.Close()

	store, err := backend.Open(ctx, cfg.Store.Name)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// withLockedStore is withStore holding the store's lock file for the
// duration of fn.
func (c *commandContext) withLockedStore(ctx context.Context, fn func(core.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if cfg.Store.LockFile != "" {
		lock := flock.New(cfg.Store.LockFile)
		ok, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", core.ErrQueueLocked, cfg.Store.LockFile)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				c.logger().Warn("failed to release lock", "lock", cfg.Store.LockFile, "error", err)
			}
		}()
	}
	return c.withStore(ctx, fn)
}

// lockHeld reports whether another process holds the lock file.
func (c *commandContext) lockHeld() (bool, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return false, err
	}
	if cfg.Store.LockFile == "" {
		return false, nil
	}
	if _, err := os.Stat(cfg.Store.LockFile); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	lock := flock.New(cfg.Store.LockFile)
	ok, err := lock.TryRLock()
	if err != nil {
		return false, fmt.Errorf("check lock: %w", err)
	}
	if ok {
		_ = lock.Unlock()
	}
	return !ok, nil
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
