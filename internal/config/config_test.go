package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, DefaultStoragePath, cfg.Storage.Path)
	assert.Equal(t, 86400*time.Second, cfg.Clean.Interval())
	assert.Equal(t, 90*time.Second, cfg.Clean.TimeLimit())
	assert.Equal(t, time.Minute, cfg.Clean.TempMinAge())
	assert.Equal(t, 10*time.Second, cfg.Clean.NotifyInterval())
	assert.Equal(t, 5*time.Second, cfg.Clean.ActivityInterval())
	assert.Equal(t, "en", cfg.Telegram.Language)
	assert.Equal(t, 10*time.Second, cfg.Telegram.SendTimeout())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Empty(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv("INLINEGAMES_TEST_TOKEN", "123456:abcdefghijklmnop")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[telegram]
token = "${INLINEGAMES_TEST_TOKEN}"
admin_chat_id = 42

[storage]
driver = "sqlite"
path = "${INLINEGAMES_TEST_DB:/var/lib/inlinegames/games.db}"

[clean]
interval_seconds = 3600
time_limit_seconds = 30

[games]
disabled = ["rr"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123456:abcdefghijklmnop", cfg.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Telegram.AdminChatID)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/inlinegames/games.db", cfg.Storage.Path)
	assert.Equal(t, time.Hour, cfg.Clean.Interval())
	assert.Equal(t, 30*time.Second, cfg.Clean.TimeLimit())
	assert.Equal(t, []string{"rr"}, cfg.Games.Disabled)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Parse([]byte("[clean\ninterval_seconds = "))
	assert.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr int
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "memory driver needs no path", mutate: func(c *Config) { c.Storage = StorageConfig{Driver: "memory"} }},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "redis" }, wantErr: 1},
		{name: "sqlite without path", mutate: func(c *Config) { c.Storage = StorageConfig{Driver: "sqlite"} }, wantErr: 1},
		{name: "path traversal", mutate: func(c *Config) { c.Clean.TempDir = "../../etc" }, wantErr: 1},
		{name: "time limit too small", mutate: func(c *Config) { c.Clean.TimeLimitSeconds = 1 }, wantErr: 1},
		{name: "bad token", mutate: func(c *Config) { c.Telegram.Token = "not-a-token" }, wantErr: 1},
		{name: "bad logging", mutate: func(c *Config) { c.Logging.Level = "loud"; c.Logging.Format = "xml" }, wantErr: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Len(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("INLINEGAMES_SET", "value")

	assert.Equal(t, "plain", expandEnv("plain"))
	assert.Equal(t, "value", expandEnv("${INLINEGAMES_SET}"))
	assert.Equal(t, "value", expandEnv("${INLINEGAMES_SET:fallback}"))
	assert.Equal(t, "fallback", expandEnv("${INLINEGAMES_UNSET_VAR:fallback}"))
	assert.Equal(t, "${broken", expandEnv("${broken"))
}

func TestMaskTelegramToken(t *testing.T) {
	assert.Equal(t, "", MaskTelegramToken(""))
	assert.Equal(t, "123456:abcd********mnop", MaskTelegramToken("123456:abcdefghijklmnop"))
	assert.Equal(t, "***", MaskTelegramToken("short"))
}

func TestLoadEnvOptional(t *testing.T) {
	assert.NoError(t, LoadEnvOptional(filepath.Join(t.TempDir(), "absent.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\n\nINLINEGAMES_FROM_ENV = yes\nbroken-line\n"), 0644))
	t.Setenv("INLINEGAMES_FROM_ENV", "")

	require.NoError(t, LoadEnvOptional(path))
	assert.Equal(t, "yes", os.Getenv("INLINEGAMES_FROM_ENV"))
}
