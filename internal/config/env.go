package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. INLINEGAMES_TELEGRAM_TOKEN.
const EnvPrefix = "INLINEGAMES"

// envOverrides are environment variables that take precedence over the file.
// Empty values leave the file setting untouched.
type envOverrides struct {
	TelegramToken       string `envconfig:"TELEGRAM_TOKEN"`
	TelegramAdminChatID int64  `envconfig:"TELEGRAM_ADMIN_CHAT_ID"`
	StorageDriver       string `envconfig:"STORAGE_DRIVER"`
	StoragePath         string `envconfig:"STORAGE_PATH"`
	TempDir             string `envconfig:"TEMP_DIR"`
	LogLevel            string `envconfig:"LOG_LEVEL"`
	MetricsTextfile     string `envconfig:"METRICS_TEXTFILE"`
}

// ApplyEnv overlays INLINEGAMES_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := envconfig.Process(EnvPrefix, &o); err != nil {
		return fmt.Errorf("loading environment overrides: %w", err)
	}

	if o.TelegramToken != "" {
		c.Telegram.Token = o.TelegramToken
	}
	if o.TelegramAdminChatID != 0 {
		c.Telegram.AdminChatID = o.TelegramAdminChatID
	}
	if o.StorageDriver != "" {
		c.Storage.Driver = o.StorageDriver
	}
	if o.StoragePath != "" {
		c.Storage.Path = expandHome(o.StoragePath)
	}
	if o.TempDir != "" {
		c.Clean.TempDir = expandHome(o.TempDir)
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.MetricsTextfile != "" {
		c.Metrics.Textfile = expandHome(o.MetricsTextfile)
	}

	return nil
}
