// Package config loads settings for programs that host a serial queue.
//
// Values come from three layers, later ones winning:
//   - Default()
//   - a TOML file (serialq.toml in the working directory, or an explicit path)
//   - SERIALQ_* environment variables, after loading a .env file if present
//
// Example file:
//
//	[store]
//	driver = "sqlite"
//	dsn = "~/.local/share/serialq/queue.db"
//	name = "geocode"
//
//	[queue]
//	resume_cron = "*/5 * * * *"
//
//	[logging]
//	level = "debug"
package config
