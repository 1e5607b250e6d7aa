// Package config loads runtime configuration from TOML.
//
// A configuration file looks like:
//
//	[logging]
//	level = "debug"
//	development = true
//
//	[settings]
//	enabled = true
//	capabilities = { integerSupport = false }
//
//	[cache]
//	size = 128
//
//	[modules]
//	runtime_shader = "modules/rt_shader.sksl.bin"
package config

import (
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/ir"
)

const (
	DefaultLogLevel  = "info"
	DefaultCacheSize = 64
)

// Config is the top-level configuration.
type Config struct {
	// Modules maps a program kind name to the module artifact decoded
	// as that kind's library scope.
	Modules  map[string]string `toml:"modules"`
	Logging  Logging           `toml:"logging"`
	Settings Settings          `toml:"settings"`
	Cache    Cache             `toml:"cache"`
}

type Logging struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Settings controls folding of sk_Caps settings. When Enabled is false
// settings are kept unresolved in decoded programs.
type Settings struct {
	Capabilities map[string]bool `toml:"capabilities"`
	Enabled      bool            `toml:"enabled"`
}

type Cache struct {
	// Size is the number of decoded programs kept. Zero disables caching.
	Size int `toml:"size"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: Logging{Level: DefaultLogLevel},
		Cache:   Cache{Size: DefaultCacheSize},
	}
}

// Load reads and validates a TOML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config("read "+path, err)
	}
	return Parse(data)
}

// Parse decodes and validates TOML. Missing keys take their defaults.
func Parse(data []byte) (*Config, error) {
	var raw struct {
		Cache    *Cache            `toml:"cache"`
		Modules  map[string]string `toml:"modules"`
		Logging  Logging           `toml:"logging"`
		Settings Settings          `toml:"settings"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Config("parse toml", err)
	}

	c := Default()
	c.Modules = raw.Modules
	c.Settings = raw.Settings
	c.Logging.Development = raw.Logging.Development
	if raw.Logging.Level != "" {
		c.Logging.Level = raw.Logging.Level
	}
	if raw.Cache != nil {
		c.Cache = *raw.Cache
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return errors.Config("logging level", err)
	}
	if c.Cache.Size < 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.Cache.Size).
			Detail("cache size must not be negative").
			Build()
	}
	for _, name := range sortedKeys(c.Settings.Capabilities) {
		if !ir.KnownSetting("sk_Caps." + name) {
			return errors.NotFound(errors.PhaseConfig, "capability", name)
		}
	}
	for _, name := range sortedKeys(c.Modules) {
		if _, ok := ir.ParseProgramKind(name); !ok {
			return errors.NotFound(errors.PhaseConfig, "program kind", name)
		}
		if strings.TrimSpace(c.Modules[name]) == "" {
			return errors.InvalidInput(errors.PhaseConfig, "empty module path for "+name)
		}
	}
	return nil
}

// Context builds the language context described by the settings section.
func (c *Config) Context() *ir.Context {
	if !c.Settings.Enabled {
		return ir.NewContext()
	}
	return ir.NewContext(ir.WithCapabilities(c.Settings.Capabilities))
}

// ModulePath returns the module artifact configured for kind.
func (c *Config) ModulePath(kind ir.ProgramKind) (string, bool) {
	path, ok := c.Modules[kind.String()]
	return path, ok
}

// Logger builds a zap logger from the logging section.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, errors.Config("logging level", err)
	}
	zc := zap.NewProductionConfig()
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	log, err := zc.Build()
	if err != nil {
		return nil, errors.Config("build logger", err)
	}
	return log, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
