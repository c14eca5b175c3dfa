// Package config provides configuration management for actor system hosts
package config

import (
	"fmt"
	"time"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// String returns the string representation of Environment
func (e Environment) String() string {
	return string(e)
}

// IsValid checks if the environment is valid
func (e Environment) IsValid() bool {
	switch e {
	case EnvDevelopment, EnvTesting, EnvStaging, EnvProduction:
		return true
	default:
		return false
	}
}

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
	LogLevelFatal LogLevel = "fatal"
)

// String returns the string representation of LogLevel
func (l LogLevel) String() string {
	return string(l)
}

// IsValid checks if the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelFatal:
		return true
	default:
		return false
	}
}

// BlockingMode selects how the host waits after installing actors
type BlockingMode string

const (
	// BlockingNone returns as soon as actors are installed
	BlockingNone BlockingMode = "none"

	// BlockingTerminated waits until the actor system terminates
	BlockingTerminated BlockingMode = "terminated"

	// BlockingSignal waits for an OS signal, then shuts the system down
	BlockingSignal BlockingMode = "signal"
)

// IsValid checks if the blocking mode is valid
func (m BlockingMode) IsValid() bool {
	switch m {
	case BlockingNone, BlockingTerminated, BlockingSignal:
		return true
	default:
		return false
	}
}

// Config represents the complete host configuration
type Config struct {
	// Application configuration
	App AppConfig `yaml:"app" json:"app"`

	// Logging configuration
	Log LogConfig `yaml:"log" json:"log"`

	// Actor system configuration
	Actor ActorConfig `yaml:"actor" json:"actor"`

	// Host configuration
	Host HostConfig `yaml:"host" json:"host"`

	// Custom configurations for installers
	Custom map[string]interface{} `yaml:"custom,omitempty" json:"custom,omitempty"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Version     string            `yaml:"version" json:"version"`
	Environment Environment       `yaml:"environment" json:"environment"`
	Debug       bool              `yaml:"debug" json:"debug"`
	Metadata    map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	// Log level
	Level LogLevel `yaml:"level" json:"level"`

	// Log format (json, text)
	Format string `yaml:"format" json:"format"`

	// Output destination (stdout, stderr, file path)
	Output string `yaml:"output" json:"output"`

	// Fields added to every entry
	Fields map[string]interface{} `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// ActorConfig contains actor system configuration
type ActorConfig struct {
	// Maximum number of actors per system
	MaxActors int `yaml:"max_actors" json:"max_actors"`

	// Default mailbox size for new actors
	DefaultMailboxSize int `yaml:"default_mailbox_size" json:"default_mailbox_size"`

	// Per-message processing timeout
	ProcessTimeout time.Duration `yaml:"process_timeout" json:"process_timeout"`
}

// HostConfig contains the host's run settings
type HostConfig struct {
	// Name of the actor system to create
	SystemName string `yaml:"system_name" json:"system_name"`

	// How Run waits after installation
	Blocking BlockingMode `yaml:"blocking" json:"blocking"`

	// Bound on system shutdown once a signal arrives
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`

	// Bound on the whole wait, zero for none
	WaitTimeout time.Duration `yaml:"wait_timeout" json:"wait_timeout"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "actorhost",
			Version:     "1.0.0",
			Environment: EnvDevelopment,
		},
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: "text",
			Output: "stderr",
		},
		Actor: ActorConfig{
			MaxActors:          10000,
			DefaultMailboxSize: 1000,
			ProcessTimeout:     30 * time.Second,
		},
		Host: HostConfig{
			SystemName:      "actorhost",
			Blocking:        BlockingSignal,
			ShutdownTimeout: 10 * time.Second,
		},
		Custom: make(map[string]interface{}),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return ErrInvalidAppName
	}
	if !c.App.Environment.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEnvironment, c.App.Environment)
	}

	if !c.Log.Level.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}

	if c.Actor.MaxActors <= 0 {
		return ErrInvalidMaxActors
	}
	if c.Actor.DefaultMailboxSize <= 0 {
		return ErrInvalidMailboxSize
	}

	if c.Host.SystemName == "" {
		return ErrInvalidSystemName
	}
	if !c.Host.Blocking.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidBlockingMode, c.Host.Blocking)
	}
	if c.Host.ShutdownTimeout < 0 || c.Host.WaitTimeout < 0 {
		return ErrInvalidShutdownTimeout
	}

	return nil
}

// IsDebugEnabled reports whether app.debug asks for debug logging
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug
}
