// Package config provides configuration types for tooldecoder.
package config

// Config represents the main tooldecoder configuration.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Logging  LoggingConfig  `toml:"logging"`
	Output   OutputConfig   `toml:"output"`
}

// DefaultsConfig holds the values injected into every converted tool.
type DefaultsConfig struct {
	RampAngle   float64  `toml:"ramp_angle"`
	RampRate    *float64 `toml:"ramp_rate,omitempty"` // unset derives from feed rate
	Vendor      string   `toml:"vendor"`
	ToolSpecURL string   `toml:"tool_spec_url"`
	TipLength   float64  `toml:"tip_length"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `toml:"level"`  // debug, info, warn, error
	Format      string `toml:"format"` // console, json
	Development bool   `toml:"development"`
}

// OutputConfig controls how documents are written.
type OutputConfig struct {
	Indent    string `toml:"indent"`
	Extension string `toml:"extension"`
}

// LogFormat is the log encoding.
type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

// LogLevel is a zap level name.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
