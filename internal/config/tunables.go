package config

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Tunables are the runtime-adjustable knobs read from staffsync.yml. They
// can change without a restart; callers must re-read them per operation.
type Tunables struct {
	RemoteTimeout    time.Duration `mapstructure:"remoteTimeout"`
	ResolverCacheTTL time.Duration `mapstructure:"resolverCacheTTL"`
	MaxPageSize      int           `mapstructure:"maxPageSize"`
	RateLimitPerSec  float64       `mapstructure:"rateLimitPerSec"`
	RateLimitBurst   int           `mapstructure:"rateLimitBurst"`
}

func DefaultTunables() Tunables {
	return Tunables{
		RemoteTimeout:    10 * time.Second,
		ResolverCacheTTL: 30 * time.Second,
		MaxPageSize:      100,
		RateLimitPerSec:  25,
		RateLimitBurst:   50,
	}
}

// TunablesHolder hands out the current tunables snapshot and follows config
// file changes via fsnotify.
type TunablesHolder struct {
	current atomic.Value // holds Tunables
}

func NewTunablesHolder(log *zap.Logger) (*TunablesHolder, error) {
	v := viper.New()

	v.SetConfigName("staffsync")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/staffsync")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STAFFSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &TunablesHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultTunables())
		return holder, nil
	}

	holder.current.Store(unmarshalTunables(v, log))

	v.OnConfigChange(func(e fsnotify.Event) {
		next := unmarshalTunables(v, log)
		holder.current.Store(next)
		if log != nil {
			log.Info("tunables reloaded", zap.String("file", e.Name))
		}
	})
	v.WatchConfig()

	return holder, nil
}

// Current returns the latest tunables snapshot.
func (h *TunablesHolder) Current() Tunables {
	if h == nil {
		return DefaultTunables()
	}
	if cfg, ok := h.current.Load().(Tunables); ok {
		return cfg
	}
	return DefaultTunables()
}

func unmarshalTunables(v *viper.Viper, log *zap.Logger) Tunables {
	cfg := DefaultTunables()
	if err := v.UnmarshalKey("staffsync", &cfg); err != nil {
		if log != nil {
			log.Warn("invalid tunables config, keeping defaults", zap.Error(err))
		}
		return DefaultTunables()
	}
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = DefaultTunables().RemoteTimeout
	}
	if cfg.ResolverCacheTTL <= 0 {
		cfg.ResolverCacheTTL = DefaultTunables().ResolverCacheTTL
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = DefaultTunables().MaxPageSize
	}
	return cfg
}
