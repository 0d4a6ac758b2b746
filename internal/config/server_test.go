package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfig_IsValid(t *testing.T) {
	cfg := DefaultServerConfig()
	require.NoError(t, ValidateServerConfig(cfg))
	assert.Equal(t, domain.DefaultTaxYear, cfg.Year())
}

func TestLoadServerConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netpay.yaml")
	content := `
addr: ":9090"
read_timeout: 5s
default_year: 2025
log_level: debug
log_format: console
redis_addr: "localhost:6379"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	holder, err := LoadServerConfig(path, false)
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, domain.Year2025, cfg.Year())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoadServerConfig_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netpay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\n"), 0644))
	t.Setenv("NETPAY_ADDR", ":7070")

	holder, err := LoadServerConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, ":7070", holder.Get().Addr)
}

func TestLoadServerConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netpay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_year: 2019\n"), 0644))

	_, err := LoadServerConfig(path, false)
	assert.ErrorIs(t, err, domain.ErrUnsupportedYear)

	_, err = LoadServerConfig(filepath.Join(t.TempDir(), "missing.yaml"), false)
	assert.Error(t, err, "an explicit path must exist")
}

func TestServerConfigHolder_Apply(t *testing.T) {
	holder := NewServerConfigHolder(DefaultServerConfig())

	var seen []ServerConfig
	holder.OnChange(func(c ServerConfig) { seen = append(seen, c) })
	var errs []error
	holder.OnError(func(err error) { errs = append(errs, err) })

	update := DefaultServerConfig()
	update.DefaultYear = 2025
	update.LogLevel = "warn"
	update.Addr = ":1"
	holder.Apply(update)

	cfg := holder.Get()
	assert.Equal(t, domain.Year2025, cfg.Year())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Addr, "listener settings are not reloaded")
	require.Len(t, seen, 1)

	bad := update
	bad.LogLevel = "loud"
	holder.Apply(bad)
	assert.Equal(t, "warn", holder.Get().LogLevel)
	assert.Len(t, errs, 1)
	assert.Len(t, seen, 1)
}

func TestValidateServerConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"empty addr", func(c *ServerConfig) { c.Addr = "" }},
		{"bad year", func(c *ServerConfig) { c.DefaultYear = 1 }},
		{"bad level", func(c *ServerConfig) { c.LogLevel = "trace" }},
		{"bad format", func(c *ServerConfig) { c.LogFormat = "xml" }},
		{"zero timeout", func(c *ServerConfig) { c.ReadTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(&cfg)
			assert.Error(t, ValidateServerConfig(cfg))
		})
	}
}
