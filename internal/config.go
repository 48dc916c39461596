package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the gateway configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Tool   ToolConfig        `yaml:"tool"`
	Native NativeAPIConfig   `yaml:"native_api"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Tool.Validate(); err != nil {
		return err
	}
	if err := c.Native.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
//
// Debug widens the log level to debug, which records request paths and
// query strings: a plain-text history of searches and graph names. Leave
// it off outside troubleshooting sessions.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	LogFile  string     `yaml:"log_file"`
	Debug    bool       `yaml:"debug"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// Level returns the effective log level, honoring the debug switch.
func (c *ApplicationConfig) Level() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return c.LogLevel
}

// HTTPConfig holds HTTP server configuration. The gateway is meant for a
// single local user, so the default host keeps it off the network.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ToolConfig holds the logseq CLI invocation settings. Converter is the
// argv of the filter that structured query output is piped through to turn
// EDN into JSON; leave it empty to pass query output through untouched.
type ToolConfig struct {
	Bin            string   `yaml:"bin"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	Converter      []string `yaml:"converter"`
}

// Timeout returns the per-invocation deadline.
func (c *ToolConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the tool configuration.
func (c *ToolConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Bin, validation.Required),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
	)
}

// NativeAPIConfig holds the address of the HTTP API server embedded in the
// Logseq desktop app.
type NativeAPIConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-call deadline.
func (c *NativeAPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the native API configuration.
func (c *NativeAPIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.Required),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
	)
}

// AuthConfig holds the Logseq API token used for write operations. The
// token is optional here; requests may carry their own, and writes without
// any token fail with guidance at call time.
type AuthConfig struct {
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Host: "localhost",
				Port: 8765,
			},
		},
		Tool: ToolConfig{
			Bin:            "logseq",
			TimeoutSeconds: 30,
			Converter:      []string{"jet", "--to", "json"},
		},
		Native: NativeAPIConfig{
			URL:            "http://127.0.0.1:12315/api",
			TimeoutSeconds: 10,
		},
		Auth: AuthConfig{},
	}
}
