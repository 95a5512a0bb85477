// Package config provides configuration management for the Lumina Iris
// studio agent. Configuration is loaded from an optional YAML file and
// environment variables, with environment variables taking precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Default values
	DefaultPort     = 8790
	DefaultLogLevel = "info"
	DefaultDataDir  = ".lumina"

	// Environment variable names
	EnvConfigFile = "LUMINA_CONFIG"
	EnvPort       = "LUMINA_PORT"
	EnvLogLevel   = "LUMINA_LOG_LEVEL"
	EnvDataDir    = "LUMINA_DATA_DIR"
	EnvOwnerEmail = "LUMINA_OWNER_EMAIL"
	EnvHeadless   = "LUMINA_HEADLESS"
	EnvGenBaseURL = "LUMINA_GEN_BASE_URL"
	EnvGenToken   = "LUMINA_GEN_TOKEN"

	// Database filename
	DBFilename = "lumina.db"

	// Engine timing defaults
	DefaultSnapshotQuiet = 1 * time.Second
	DefaultFrameInterval = 16 * time.Millisecond
	DefaultGateTick      = 1 * time.Second
	DefaultRegistryPoll  = 5 * time.Second
	DefaultGenPoll       = 8 * time.Second
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	MediaDir() string
	OwnerEmail() string
	Headless() bool
	GenBaseURL() string
	GenToken() string
	GenEnabled() bool
	SnapshotQuiet() time.Duration
	FrameInterval() time.Duration
	GateTick() time.Duration
	RegistryPoll() time.Duration
	GenPollInterval() time.Duration
}

// fileConfig is the YAML layout of the optional config file.
type fileConfig struct {
	Port       int    `yaml:"port"`
	LogLevel   string `yaml:"log_level"`
	DataDir    string `yaml:"data_dir"`
	OwnerEmail string `yaml:"owner_email"`
	Headless   bool   `yaml:"headless"`
	Generator  struct {
		BaseURL string `yaml:"base_url"`
		Token   string `yaml:"token"`
	} `yaml:"generator"`
}

// EnvConfig reads configuration from a YAML file and environment variables
type EnvConfig struct {
	port       int
	logLevel   string
	dataDir    string
	ownerEmail string
	headless   bool
	genBaseURL string
	genToken   string
}

// New creates a new EnvConfig with defaults, optional YAML file values and
// environment variable overrides, in that order.
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:     DefaultPort,
		logLevel: DefaultLogLevel,
		dataDir:  defaultDataDir(),
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if oe := os.Getenv(EnvOwnerEmail); oe != "" {
		cfg.ownerEmail = oe
	}

	if h := os.Getenv(EnvHeadless); h == "1" || h == "true" {
		cfg.headless = true
	}

	if u := os.Getenv(EnvGenBaseURL); u != "" {
		cfg.genBaseURL = u
	}
	if t := os.Getenv(EnvGenToken); t != "" {
		cfg.genToken = t
	}

	return cfg, nil
}

func (c *EnvConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	if fc.Port != 0 {
		if fc.Port < 1 || fc.Port > 65535 {
			return fmt.Errorf("invalid port %d in %s", fc.Port, path)
		}
		c.port = fc.Port
	}
	if fc.LogLevel != "" {
		c.logLevel = fc.LogLevel
	}
	if fc.DataDir != "" {
		c.dataDir = fc.DataDir
	}
	if fc.OwnerEmail != "" {
		c.ownerEmail = fc.OwnerEmail
	}
	if fc.Headless {
		c.headless = true
	}
	if fc.Generator.BaseURL != "" {
		c.genBaseURL = fc.Generator.BaseURL
	}
	if fc.Generator.Token != "" {
		c.genToken = fc.Generator.Token
	}
	return nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// MediaDir returns the directory holding locally uploaded media
func (c *EnvConfig) MediaDir() string {
	return filepath.Join(c.dataDir, "media")
}

// OwnerEmail returns the privileged identity exempt from moderation.
// Empty means no owner is configured.
func (c *EnvConfig) OwnerEmail() string {
	return c.ownerEmail
}

// Headless reports whether the system tray should be disabled
func (c *EnvConfig) Headless() bool {
	return c.headless
}

func (c *EnvConfig) GenBaseURL() string {
	return c.genBaseURL
}

func (c *EnvConfig) GenToken() string {
	return c.genToken
}

// GenEnabled reports whether a real generation backend is configured
func (c *EnvConfig) GenEnabled() bool {
	return c.genBaseURL != ""
}

func (c *EnvConfig) SnapshotQuiet() time.Duration {
	return DefaultSnapshotQuiet
}

func (c *EnvConfig) FrameInterval() time.Duration {
	return DefaultFrameInterval
}

func (c *EnvConfig) GateTick() time.Duration {
	return DefaultGateTick
}

func (c *EnvConfig) RegistryPoll() time.Duration {
	return DefaultRegistryPoll
}

func (c *EnvConfig) GenPollInterval() time.Duration {
	return DefaultGenPoll
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "1.2.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
