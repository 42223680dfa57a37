package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/tournamate/rosterd/pkg/cache"
)

const (
	WriteModeAtomic     = "atomic"
	WriteModeSequential = "sequential"

	envPrefix = "ROSTERD"
)

type App struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type Server struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"allowedOrigins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

// Address returns host:port for the HTTP listener
func (s Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Roster controls how player mutations are written
type Roster struct {
	// WriteMode is "atomic" (one multi-path batch per mutation) or
	// "sequential" (dependent writes, partial failures reported)
	WriteMode string `mapstructure:"writeMode"`

	// ReconcileInterval is the period of the roster repair job. Zero disables it.
	ReconcileInterval time.Duration `mapstructure:"reconcileInterval"`

	ReconcileOnStartup bool `mapstructure:"reconcileOnStartup"`
}

type AppConfig struct {
	App    App          `mapstructure:"app"`
	Server Server       `mapstructure:"server"`
	Log    Log          `mapstructure:"log"`
	Cache  cache.Config `mapstructure:"cache"`
	Roster Roster       `mapstructure:"roster"`
}

var (
	mu        sync.RWMutex
	appConfig *AppConfig
)

// LoadConfig reads $WORKDIR/appconfig/<environment>.yaml, applies ROSTERD_*
// environment overrides and stores the result for GetConfig.
// A missing file is not an error; defaults and environment values apply.
func LoadConfig(environment string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	workdir := os.Getenv("WORKDIR")
	if workdir == "" {
		workdir = "."
	}

	v.SetConfigName(environment)
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(workdir, "appconfig"))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config %q: %w", environment, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mu.Lock()
	appConfig = cfg
	mu.Unlock()

	return cfg, nil
}

// GetConfig returns the configuration stored by the last successful LoadConfig
func GetConfig() (*AppConfig, error) {
	mu.RLock()
	defer mu.RUnlock()

	if appConfig == nil {
		return nil, errors.New("config not loaded")
	}
	return appConfig, nil
}

func (c *AppConfig) Validate() error {
	switch c.Roster.WriteMode {
	case WriteModeAtomic, WriteModeSequential:
	default:
		return fmt.Errorf("invalid roster.writeMode %q", c.Roster.WriteMode)
	}

	switch c.Cache.Driver {
	case cache.DriverMemory, cache.DriverRedis:
	case cache.DriverSQL:
		if c.Cache.SQL == nil || c.Cache.SQL.DSN == "" {
			return errors.New("cache.sql.dsn is required for the sql driver")
		}
	default:
		return fmt.Errorf("invalid cache.driver %q", c.Cache.Driver)
	}

	if c.Cache.InMemory != nil && c.Cache.InMemory.DefaultExpiration > 0 {
		return fmt.Errorf("invalid cache.inmemory.defaultExpiration %d: stored records must not expire", c.Cache.InMemory.DefaultExpiration)
	}

	if c.Roster.ReconcileInterval < 0 {
		return errors.New("roster.reconcileInterval must not be negative")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "rosterd")
	v.SetDefault("app.version", "0.0.1")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdownTimeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("cache.driver", cache.DriverMemory)
	v.SetDefault("cache.inmemory.defaultExpiration", -1)
	v.SetDefault("cache.inmemory.cleanupInterval", -1)
	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", "6379")
	v.SetDefault("cache.redis.database", 0)
	v.SetDefault("cache.redis.username", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.sql.dsn", "")

	v.SetDefault("roster.writeMode", WriteModeAtomic)
	v.SetDefault("roster.reconcileInterval", "0s")
	v.SetDefault("roster.reconcileOnStartup", false)
}
