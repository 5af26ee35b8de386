package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values applied to empty fields.
const (
	DefaultIntervalSeconds         = 86400
	DefaultTimeLimitSeconds        = 90
	DefaultTempMinAgeSeconds       = 60
	DefaultNotifyIntervalSeconds   = 10
	DefaultActivityIntervalSeconds = 5
	DefaultStorageDriver           = "file"
	DefaultStoragePath             = "./var/games"
	DefaultTempDir                 = "./var/tmp"
	DefaultLanguage                = "en"
	DefaultSendTimeoutSeconds      = 10
	DefaultMetricsNamespace        = "inlinegames"
)

// Load reads a TOML file, fills defaults and expands environment references.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse is Load without the file read.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	expandEnvVars(&cfg)

	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	expandEnvVars(cfg)
	return cfg
}

// Validate returns every problem found, not just the first one.
func (c *Config) Validate() []error {
	var errs []error

	if c.Telegram.Token != "" {
		if err := validateTelegramToken(c.Telegram.Token); err != nil {
			errs = append(errs, err)
		}
	}

	if c.Telegram.SendTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("telegram.send_timeout_seconds must not be negative"))
	}

	switch c.Storage.Driver {
	case "file", "sqlite":
		if c.Storage.Path == "" {
			errs = append(errs, fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver))
		} else if err := validatePath(c.Storage.Path, "storage.path"); err != nil {
			errs = append(errs, err)
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("invalid storage.driver: %s (expected: file, sqlite, memory)", c.Storage.Driver))
	}

	if c.Clean.IntervalSeconds < 0 {
		errs = append(errs, fmt.Errorf("clean.interval_seconds must be >= 0"))
	}
	if c.Clean.TimeLimitSeconds < 2 {
		errs = append(errs, fmt.Errorf("clean.time_limit_seconds must be >= 2 (got %d)", c.Clean.TimeLimitSeconds))
	}
	if c.Clean.NotifyIntervalSeconds < 0 || c.Clean.ActivityIntervalSeconds < 0 || c.Clean.TempMinAgeSeconds < 0 {
		errs = append(errs, fmt.Errorf("clean intervals must not be negative"))
	}
	if c.Clean.TempDir != "" {
		if err := validatePath(c.Clean.TempDir, "clean.temp_dir"); err != nil {
			errs = append(errs, err)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
	}

	return errs
}

func validateTelegramToken(token string) error {
	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return fmt.Errorf("telegram token has invalid format (expected format: <bot_id>:<token>, got: %s)", maskSecret(token))
	}

	botID, botToken := parts[0], parts[1]
	if len(botID) < 3 || len(botID) > 15 {
		return fmt.Errorf("telegram token has invalid bot ID length (expected 3-15 digits, got %d digits)", len(botID))
	}
	for _, r := range botID {
		if r < '0' || r > '9' {
			return fmt.Errorf("telegram token has invalid bot ID (expected digits only, got: %s)", botID)
		}
	}
	if len(botToken) < 10 || len(botToken) > 50 {
		return fmt.Errorf("telegram token has invalid token length (expected 10-50 characters, got %d)", len(botToken))
	}

	return nil
}

func validatePath(path, fieldName string) error {
	if strings.HasPrefix(path, "~") {
		return nil
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("%s contains potentially dangerous path traversal sequence", fieldName)
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Telegram.Language == "" {
		c.Telegram.Language = DefaultLanguage
	}
	if c.Telegram.SendTimeoutSeconds == 0 {
		c.Telegram.SendTimeoutSeconds = DefaultSendTimeoutSeconds
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultStorageDriver
	}
	if c.Storage.Path == "" && c.Storage.Driver == "file" {
		c.Storage.Path = DefaultStoragePath
	}

	if c.Clean.IntervalSeconds == 0 {
		c.Clean.IntervalSeconds = DefaultIntervalSeconds
	}
	if c.Clean.TimeLimitSeconds == 0 {
		c.Clean.TimeLimitSeconds = DefaultTimeLimitSeconds
	}
	if c.Clean.TempDir == "" {
		c.Clean.TempDir = DefaultTempDir
	}
	if c.Clean.TempMinAgeSeconds == 0 {
		c.Clean.TempMinAgeSeconds = DefaultTempMinAgeSeconds
	}
	if c.Clean.NotifyIntervalSeconds == 0 {
		c.Clean.NotifyIntervalSeconds = DefaultNotifyIntervalSeconds
	}
	if c.Clean.ActivityIntervalSeconds == 0 {
		c.Clean.ActivityIntervalSeconds = DefaultActivityIntervalSeconds
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
}

func expandEnvVars(c *Config) {
	c.Telegram.Token = expandEnv(c.Telegram.Token)
	c.Storage.Path = expandHome(expandEnv(c.Storage.Path))
	c.Clean.TempDir = expandHome(expandEnv(c.Clean.TempDir))
	c.Metrics.Textfile = expandHome(expandEnv(c.Metrics.Textfile))
}

// expandEnv resolves a value of the form ${VAR} or ${VAR:default}.
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	if key, defaultVal, ok := strings.Cut(content, ":"); ok {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return defaultVal
	}

	return os.Getenv(content)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// LoadEnvOptional exports KEY=VALUE lines of a .env file if it exists.
// Blank lines and # comments are skipped.
func LoadEnvOptional(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if key = strings.TrimSpace(key); key != "" {
			if err := os.Setenv(key, strings.TrimSpace(value)); err != nil {
				return fmt.Errorf("failed to set %s: %w", key, err)
			}
		}
	}

	return nil
}
