// Package config loads and validates the inlinegames configuration.
// The file is TOML; string values may reference environment variables
// with ${VAR} or ${VAR:default} syntax.
//
// Configuration structure:
//   - [telegram]: bot token, admin chat for progress messages, UI language
//   - [storage]: session storage driver and its location
//   - [clean]: staleness threshold, time limit, throttling and temp cleanup
//   - [games]: game codes that can no longer be created
//   - [logging]: level, format and output
//   - [metrics]: optional Prometheus textfile destination
package config

import "time"

// Config is the root of the configuration file.
type Config struct {
	Telegram TelegramConfig `toml:"telegram"`
	Storage  StorageConfig  `toml:"storage"`
	Clean    CleanConfig    `toml:"clean"`
	Games    GamesConfig    `toml:"games"`
	Logging  LoggingConfig  `toml:"logging"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// TelegramConfig configures the bot used to edit inline messages.
type TelegramConfig struct {
	Token              string `toml:"token"`
	AdminChatID        int64  `toml:"admin_chat_id"`
	Language           string `toml:"language"`
	SendTimeoutSeconds int    `toml:"send_timeout_seconds"`
}

// SendTimeout bounds a single Bot API call.
func (c TelegramConfig) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutSeconds) * time.Second
}

// StorageConfig selects the session storage backend.
type StorageConfig struct {
	Driver string `toml:"driver"` // file, sqlite, memory
	Path   string `toml:"path"`   // directory for file, database file for sqlite
}

// CleanConfig controls the maintenance sweep.
type CleanConfig struct {
	IntervalSeconds         int    `toml:"interval_seconds"`
	TimeLimitSeconds        int    `toml:"time_limit_seconds"`
	TempDir                 string `toml:"temp_dir"`
	TempMinAgeSeconds       int    `toml:"temp_min_age_seconds"`
	NotifyIntervalSeconds   int    `toml:"notify_interval_seconds"`
	ActivityIntervalSeconds int    `toml:"activity_interval_seconds"`
}

// Interval is the default staleness threshold.
func (c CleanConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// TimeLimit is the execution ceiling of a single sweep.
func (c CleanConfig) TimeLimit() time.Duration {
	return time.Duration(c.TimeLimitSeconds) * time.Second
}

// TempMinAge is the minimum age of a temporary file before it is removed.
func (c CleanConfig) TempMinAge() time.Duration {
	return time.Duration(c.TempMinAgeSeconds) * time.Second
}

// NotifyInterval is the minimum spacing between message edits.
func (c CleanConfig) NotifyInterval() time.Duration {
	return time.Duration(c.NotifyIntervalSeconds) * time.Second
}

// ActivityInterval is the minimum spacing between typing indicators.
func (c CleanConfig) ActivityInterval() time.Duration {
	return time.Duration(c.ActivityIntervalSeconds) * time.Second
}

// GamesConfig lists game codes that are no longer offered.
type GamesConfig struct {
	Disabled []string `toml:"disabled"`
}

// LoggingConfig mirrors logger.Config.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Textfile  string `toml:"textfile"`
	Namespace string `toml:"namespace"`
}
