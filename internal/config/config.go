// Package config handles tooldecoder configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tooldecoder/tooldecoder/internal/convert"
	apperrors "github.com/tooldecoder/tooldecoder/internal/errors"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			RampAngle: convert.DefaultRampAngle,
			TipLength: convert.DefaultTipLength,
		},
		Logging: LoggingConfig{
			Level:  string(LogLevelInfo),
			Format: string(LogFormatConsole),
		},
		Output: OutputConfig{
			Indent:    "  ",
			Extension: ".tools",
		},
	}
}

// DefaultPath returns ~/.tooldecoder/config.toml.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".tooldecoder", "config.toml")
}

// Load loads the configuration from the given path, then applies
// TOOLDECODER_* environment overrides. A missing file yields defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(expandPath(configPath))
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeConfigInvalid, "parse config", apperrors.CategoryConfig)
		}
	case !os.IsNotExist(err):
		return nil, apperrors.Wrap(err, apperrors.CodeConfigInvalid, "read config", apperrors.CategoryConfig)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the configuration to the given path.
func (c *Config) Save(configPath string) error {
	configPath = expandPath(configPath)
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(c)
}

// Validate rejects values the converter or logger cannot use.
func (c *Config) Validate() error {
	var problems []string

	if c.Defaults.RampAngle <= 0 || c.Defaults.RampAngle > 90 {
		problems = append(problems, fmt.Sprintf("defaults.ramp_angle %v outside (0, 90]", c.Defaults.RampAngle))
	}
	if c.Defaults.RampRate != nil && *c.Defaults.RampRate < 0 {
		problems = append(problems, "defaults.ramp_rate is negative")
	}
	if c.Defaults.TipLength < 0 {
		problems = append(problems, "defaults.tip_length is negative")
	}

	switch LogLevel(c.Logging.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q unknown", c.Logging.Level))
	}
	switch LogFormat(c.Logging.Format) {
	case LogFormatConsole, LogFormatJSON:
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q unknown", c.Logging.Format))
	}

	if c.Output.Extension != "" && !strings.HasPrefix(c.Output.Extension, ".") {
		problems = append(problems, "output.extension must start with a dot")
	}

	if len(problems) > 0 {
		return apperrors.New(apperrors.CodeConfigInvalid, strings.Join(problems, "; "), apperrors.CategoryConfig)
	}
	return nil
}

// Settings returns the converter settings described by the [defaults] table.
func (c *Config) Settings() convert.Settings {
	s := convert.Settings{
		RampAngle:   c.Defaults.RampAngle,
		Vendor:      c.Defaults.Vendor,
		ToolSpecURL: c.Defaults.ToolSpecURL,
		TipLength:   c.Defaults.TipLength,
	}
	if c.Defaults.RampRate != nil {
		v := *c.Defaults.RampRate
		s.RampRate = &v
	}
	return s
}

// OutputPath derives the document path for an input file: the input's base
// name with the configured extension, next to the input.
func (c *Config) OutputPath(input string) string {
	ext := c.Output.Extension
	if ext == "" {
		ext = Default().Output.Extension
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ext
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
