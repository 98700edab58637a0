// Package config loads qfourier settings from YAML with environment
// overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"qfourier/backend"
)

const (
	envPrefix = "QFOURIER_"

	defaultLogLevel = "info"
	defaultShots    = 1024
)

type ProviderConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Token   string        `yaml:"token"`
	Hub     string        `yaml:"hub"`
	Group   string        `yaml:"group"`
	Project string        `yaml:"project"`
	Timeout time.Duration `yaml:"timeout"`
}

// WithDefaults returns a copy of the ProviderConfig with any missing fields
// set to their default values.
func (c ProviderConfig) WithDefaults() ProviderConfig {
	cpy := c
	if cpy.BaseURL == "" {
		cpy.BaseURL = backend.DefaultBaseURL
	}
	if cpy.Hub == "" {
		cpy.Hub = backend.DefaultHub
	}
	if cpy.Group == "" {
		cpy.Group = backend.DefaultGroup
	}
	if cpy.Project == "" {
		cpy.Project = backend.DefaultProject
	}
	if cpy.Timeout == 0 {
		cpy.Timeout = backend.DefaultTimeout
	}
	return cpy
}

// Backend converts the provider settings into a client configuration.
func (c ProviderConfig) Backend() backend.Config {
	return backend.Config{
		BaseURL: c.BaseURL,
		Token:   c.Token,
		Hub:     c.Hub,
		Group:   c.Group,
		Project: c.Project,
		Timeout: c.Timeout,
	}
}

type LogConfig struct {
	// One of debug, info, warn, error.
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func (c LogConfig) WithDefaults() LogConfig {
	cpy := c
	if cpy.Level == "" {
		cpy.Level = defaultLogLevel
	}
	return cpy
}

type SimulationConfig struct {
	Shots int    `yaml:"shots"`
	Seed  uint64 `yaml:"seed"`
}

func (c SimulationConfig) WithDefaults() SimulationConfig {
	cpy := c
	if cpy.Shots <= 0 {
		cpy.Shots = defaultShots
	}
	return cpy
}

type Config struct {
	Provider   ProviderConfig   `yaml:"provider"`
	Log        LogConfig        `yaml:"log"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// WithDefaults returns a copy of the Config with every section defaulted.
func (c Config) WithDefaults() Config {
	return Config{
		Provider:   c.Provider.WithDefaults(),
		Log:        c.Log.WithDefaults(),
		Simulation: c.Simulation.WithDefaults(),
	}
}

// Load reads the YAML file at path, applies QFOURIER_* environment
// overrides and fills in defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "load config")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg = cfg.WithDefaults()
	return &cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "save config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o600), "save config")
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"BASE_URL":  &c.Provider.BaseURL,
		"TOKEN":     &c.Provider.Token,
		"HUB":       &c.Provider.Hub,
		"GROUP":     &c.Provider.Group,
		"PROJECT":   &c.Provider.Project,
		"LOG_LEVEL": &c.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(envPrefix + "TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "%sTIMEOUT", envPrefix)
		}
		c.Provider.Timeout = d
	}
	if v, ok := lookup(envPrefix + "SHOTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%sSHOTS", envPrefix)
		}
		c.Simulation.Shots = n
	}
	if v, ok := lookup(envPrefix + "SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "%sSEED", envPrefix)
		}
		c.Simulation.Seed = n
	}
	return nil
}
