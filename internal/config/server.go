package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/spf13/viper"
)

// ServerConfig configures `netpay serve`.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	DefaultYear int    `mapstructure:"default_year"`

	RedisAddr      string        `mapstructure:"redis_addr"` // empty keeps advice in memory
	AdviceCacheTTL time.Duration `mapstructure:"advice_cache_ttl"`
}

// Year returns DefaultYear as a TaxYear.
func (c ServerConfig) Year() domain.TaxYear {
	return domain.TaxYear(c.DefaultYear)
}

// DefaultServerConfig returns the settings used when no file or env override is present.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		Environment:     "development",
		LogLevel:        "info",
		LogFormat:       "json",
		DefaultYear:     int(domain.DefaultTaxYear),
		AdviceCacheTTL:  24 * time.Hour,
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultServerConfig()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("read_timeout", d.ReadTimeout)
	v.SetDefault("write_timeout", d.WriteTimeout)
	v.SetDefault("shutdown_timeout", d.ShutdownTimeout)
	v.SetDefault("environment", d.Environment)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("default_year", d.DefaultYear)
	v.SetDefault("redis_addr", d.RedisAddr)
	v.SetDefault("advice_cache_ttl", d.AdviceCacheTTL)
}

// ServerConfigHolder serves the current configuration. Only DefaultYear and LogLevel are
// picked up on reload; listener settings need a restart.
type ServerConfigHolder struct {
	current atomic.Value // holds ServerConfig

	mu        sync.Mutex
	listeners []func(ServerConfig)
	onError   func(error)
}

// LoadServerConfig reads netpay.yaml (or the explicit path) and NETPAY_* environment
// variables. A missing file is not an error. When watch is set, edits to the file are
// applied to the holder.
func LoadServerConfig(path string, watch bool) (*ServerConfigHolder, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("netpay")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/netpay")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("NETPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read server config: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode server config: %w", err)
	}
	if err := ValidateServerConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewServerConfigHolder(cfg)

	if watch && v.ConfigFileUsed() != "" {
		v.OnConfigChange(func(e fsnotify.Event) {
			var updated ServerConfig
			if err := v.Unmarshal(&updated); err != nil {
				holder.notifyError(fmt.Errorf("reload %s: %w", e.Name, err))
				return
			}
			holder.Apply(updated)
		})
		v.WatchConfig()
	}

	return holder, nil
}

// NewServerConfigHolder wraps a fixed configuration.
func NewServerConfigHolder(cfg ServerConfig) *ServerConfigHolder {
	h := &ServerConfigHolder{}
	h.current.Store(cfg)
	return h
}

// Get returns the current configuration.
func (h *ServerConfigHolder) Get() ServerConfig {
	return h.current.Load().(ServerConfig)
}

// OnChange registers fn to run after every accepted reload.
func (h *ServerConfigHolder) OnChange(fn func(ServerConfig)) {
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

// OnError registers fn to receive reload failures. Without one they are dropped.
func (h *ServerConfigHolder) OnError(fn func(error)) {
	h.mu.Lock()
	h.onError = fn
	h.mu.Unlock()
}

func (h *ServerConfigHolder) notifyError(err error) {
	h.mu.Lock()
	fn := h.onError
	h.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

// Apply merges the reloadable fields of updated into the current configuration. Invalid
// updates are reported through OnError and ignored.
func (h *ServerConfigHolder) Apply(updated ServerConfig) {
	next := h.Get()
	next.DefaultYear = updated.DefaultYear
	next.LogLevel = updated.LogLevel
	if err := ValidateServerConfig(next); err != nil {
		h.notifyError(fmt.Errorf("invalid config ignored: %w", err))
		return
	}
	h.current.Store(next)

	h.mu.Lock()
	listeners := append([]func(ServerConfig){}, h.listeners...)
	h.mu.Unlock()
	for _, fn := range listeners {
		fn(next)
	}
}

// ValidateServerConfig checks ranges and enumerations.
func ValidateServerConfig(cfg ServerConfig) error {
	if cfg.Addr == "" {
		return errors.New("addr cannot be empty")
	}
	if !cfg.Year().Supported() {
		return fmt.Errorf("default_year: %w", &domain.UnsupportedYearError{Year: cfg.Year()})
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log_format %q is not json or console", cfg.LogFormat)
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 {
		return errors.New("read_timeout and write_timeout must be positive")
	}
	return nil
}
