package config

import (
	"errors"
	"fmt"

	"github.com/jdziat/simple-serial-queue/pkg/schedule"
	"github.com/jdziat/simple-serial-queue/pkg/security"
	"github.com/jdziat/simple-serial-queue/pkg/storage"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateQueue(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case storage.DriverSQLite, storage.DriverGorm, storage.DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
		}
	case storage.DriverMemory:
	default:
		return fmt.Errorf("store.driver %q is not one of sqlite, gorm, postgres, memory", c.Store.Driver)
	}
	if err := security.ValidateStoreName(c.Store.Name); err != nil {
		return fmt.Errorf("store.name: %w", err)
	}
	return nil
}

func (c *Config) validateQueue() error {
	if c.Queue.MailboxSize < 1 || c.Queue.MailboxSize > security.MaxMailboxSize {
		return fmt.Errorf("queue.mailbox_size must be between 1 and %d", security.MaxMailboxSize)
	}
	if c.Queue.EventBuffer < 1 {
		return errors.New("queue.event_buffer must be positive")
	}
	if c.Queue.ResumeCron != "" {
		if _, err := schedule.ParseCron(c.Queue.ResumeCron); err != nil {
			return fmt.Errorf("queue.resume_cron: %w", err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	return nil
}
