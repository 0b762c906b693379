package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/jdziat/simple-serial-queue/pkg/queue"
	"github.com/jdziat/simple-serial-queue/pkg/schedule"
	"github.com/jdziat/simple-serial-queue/pkg/storage"
)

// Store selects the durable backend and the store inside it.
type Store struct {
	Driver string `toml:"driver" env:"DRIVER"`
	DSN    string `toml:"dsn" env:"DSN"`
	Name   string `toml:"name" env:"NAME"`
	// LockFile defaults to the DSN path with a .lock suffix for file-backed
	// drivers.
	LockFile string `toml:"lock_file" env:"LOCK_FILE"`
}

// Queue holds dispatcher settings.
type Queue struct {
	MailboxSize int    `toml:"mailbox_size" env:"MAILBOX_SIZE"`
	EventBuffer int    `toml:"event_buffer" env:"EVENT_BUFFER"`
	ResumeCron  string `toml:"resume_cron" env:"RESUME_CRON"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" env:"FORMAT"`
	Level  string `toml:"level" env:"LEVEL"`
}

// Config encapsulates all configuration values for a queue host.
type Config struct {
	Store   Store   `toml:"store" envPrefix:"STORE_"`
	Queue   Queue   `toml:"queue" envPrefix:"QUEUE_"`
	Logging Logging `toml:"logging" envPrefix:"LOG_"`
}

// Load reads the file at path (or serialq.toml when path is empty), applies
// the environment and validates the result. It returns the config, the file
// path considered and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// applyEnv overlays SERIALQ_* variables. A .env file in the working
// directory is loaded first; it never overrides variables already set.
func applyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigName
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// Logger builds the slog logger described by the logging section.
func (c *Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.Logging.Level)}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// OpenBackend opens the configured storage backend.
func (c *Config) OpenBackend(opts ...storage.Option) (storage.Backend, error) {
	return storage.OpenBackend(c.Store.Driver, c.Store.DSN, opts...)
}

// QueueOptions returns the queue options described by the config, using
// logger for the queue.
func (c *Config) QueueOptions(logger *slog.Logger) ([]queue.Option, error) {
	opts := []queue.Option{
		queue.WithLogger(logger),
		queue.WithMailboxSize(c.Queue.MailboxSize),
		queue.WithEventBuffer(c.Queue.EventBuffer),
	}
	if c.Store.LockFile != "" {
		opts = append(opts, queue.WithLockFile(c.Store.LockFile))
	}
	if c.Queue.ResumeCron != "" {
		s, err := schedule.ParseCron(c.Queue.ResumeCron)
		if err != nil {
			return nil, fmt.Errorf("queue.resume_cron: %w", err)
		}
		opts = append(opts, queue.WithResumeSchedule(s))
	}
	return opts, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
