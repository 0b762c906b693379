package config

import (
	"fmt"
	"strings"

	"github.com/jdziat/simple-serial-queue/pkg/storage"
)

func (c *Config) normalize() error {
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.Queue.ResumeCron = strings.TrimSpace(c.Queue.ResumeCron)
	return nil
}

func (c *Config) normalizeStore() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		c.Store.Driver = defaultDriver
	}
	c.Store.Name = strings.TrimSpace(c.Store.Name)
	if c.Store.Name == "" {
		c.Store.Name = defaultStoreName
	}

	if !c.fileBacked() {
		return nil
	}

	var err error
	if c.Store.DSN, err = expandPath(strings.TrimSpace(c.Store.DSN)); err != nil {
		return fmt.Errorf("store.dsn: %w", err)
	}
	if c.Store.LockFile == "" && c.Store.DSN != "" {
		c.Store.LockFile = c.Store.DSN + ".lock"
	}
	if c.Store.LockFile, err = expandPath(c.Store.LockFile); err != nil {
		return fmt.Errorf("store.lock_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// fileBacked reports whether the DSN names a local database file.
func (c *Config) fileBacked() bool {
	return c.Store.Driver == storage.DriverSQLite || c.Store.Driver == storage.DriverGorm
}
