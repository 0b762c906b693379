package config

import "github.com/jdziat/simple-serial-queue/pkg/storage"

const (
	defaultDriver      = storage.DriverSQLite
	defaultDSN         = "~/.local/share/serialq/queue.db"
	defaultStoreName   = "queue"
	defaultMailboxSize = 64
	defaultEventBuffer = 100
	defaultLogFormat   = "text"
	defaultLogLevel    = "info"
	defaultConfigName  = "serialq.toml"
	envPrefix          = "SERIALQ_"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Store: Store{
			Driver: defaultDriver,
			DSN:    defaultDSN,
			Name:   defaultStoreName,
		},
		Queue: Queue{
			MailboxSize: defaultMailboxSize,
			EventBuffer: defaultEventBuffer,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
