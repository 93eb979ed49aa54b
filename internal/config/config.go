package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/JackWithOneEye/sensiedit/internal/rom"
	"github.com/spf13/viper"
)

type env struct {
	DBUrl           string        `mapstructure:"DB_URL"`
	Port            uint          `mapstructure:"PORT"`
	SessionTTL      time.Duration `mapstructure:"SESSION_TTL"`
	SessionCapacity int           `mapstructure:"SESSION_CAPACITY"`
	MinRomBytes     int64         `mapstructure:"MIN_ROM_BYTES"`
	MaxRomBytes     int64         `mapstructure:"MAX_ROM_BYTES"`
	ScanStart       int           `mapstructure:"SCAN_START"`
	ScanEnd         int           `mapstructure:"SCAN_END"`
	MetricsEnabled  bool          `mapstructure:"METRICS_ENABLED"`
	LiveReload      bool          `mapstructure:"LIVE_RELOAD"`
	RomRetention    time.Duration `mapstructure:"ROM_RETENTION"`
	CleanupInterval time.Duration `mapstructure:"CLEANUP_INTERVAL"`
}

var defaults = map[string]any{
	"DB_URL":           "sensiedit.db",
	"PORT":             8080,
	"SESSION_TTL":      "30m",
	"SESSION_CAPACITY": 256,
	"MIN_ROM_BYTES":    100_000,
	"MAX_ROM_BYTES":    8 << 20,
	"SCAN_START":       rom.DefaultWindow.TeamStart,
	"SCAN_END":         rom.DefaultWindow.TeamEnd,
	"METRICS_ENABLED":  true,
	"LIVE_RELOAD":      false,
	"ROM_RETENTION":    "720h",
	"CLEANUP_INTERVAL": "1h",
}

type Config struct {
	env *env
}

var cfgInstance *Config

func NewConfig() *Config {
	if cfgInstance != nil {
		return cfgInstance
	}
	cfg, err := Load(".env")
	if err != nil {
		panic(fmt.Sprintf("error loading config: %s", err))
	}
	cfgInstance = cfg
	return cfgInstance
}

// Load reads file, if it exists, with environment variables taking
// precedence over it.
func Load(file string) (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetConfigFile(file)
	v.SetConfigType("env")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var env env
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if env.MinRomBytes > env.MaxRomBytes {
		return nil, fmt.Errorf("MIN_ROM_BYTES %d exceeds MAX_ROM_BYTES %d", env.MinRomBytes, env.MaxRomBytes)
	}
	if env.ScanStart >= env.ScanEnd {
		return nil, fmt.Errorf("SCAN_START 0x%X must be below SCAN_END 0x%X", env.ScanStart, env.ScanEnd)
	}
	if env.CleanupInterval <= 0 {
		return nil, fmt.Errorf("CLEANUP_INTERVAL must be positive, got %s", env.CleanupInterval)
	}
	return &Config{&env}, nil
}

func (c *Config) DBUrl() string {
	return c.env.DBUrl
}

func (c *Config) Port() uint {
	return c.env.Port
}

func (c *Config) SessionTTL() time.Duration {
	return c.env.SessionTTL
}

func (c *Config) SessionCapacity() int {
	return c.env.SessionCapacity
}

func (c *Config) MinRomBytes() int64 {
	return c.env.MinRomBytes
}

func (c *Config) MaxRomBytes() int64 {
	return c.env.MaxRomBytes
}

func (c *Config) MetricsEnabled() bool {
	return c.env.MetricsEnabled
}

func (c *Config) LiveReload() bool {
	return c.env.LiveReload
}

// RomRetention is how long an image is kept after its last upload.
func (c *Config) RomRetention() time.Duration {
	return c.env.RomRetention
}

func (c *Config) CleanupInterval() time.Duration {
	return c.env.CleanupInterval
}

// ScanWindow is the default locator window with the team scan bounds
// overridden.
func (c *Config) ScanWindow() rom.ScanWindow {
	w := rom.DefaultWindow
	w.TeamStart = c.env.ScanStart
	w.TeamEnd = c.env.ScanEnd
	return w
}
