package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	apperrors "github.com/tooldecoder/tooldecoder/internal/errors"
)

// Environment overrides, applied after the config file.
const (
	EnvRampAngle   = "TOOLDECODER_RAMP_ANGLE"
	EnvRampRate    = "TOOLDECODER_RAMP_RATE"
	EnvVendor      = "TOOLDECODER_VENDOR"
	EnvToolSpecURL = "TOOLDECODER_TOOL_SPEC_URL"
	EnvTipLength   = "TOOLDECODER_TIP_LENGTH"
	EnvLogLevel    = "TOOLDECODER_LOG_LEVEL"
	EnvLogFormat   = "TOOLDECODER_LOG_FORMAT"
)

// LoadDotEnv loads a .env file from the working directory when present.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides cfg with any TOOLDECODER_* variables that are set.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup(EnvVendor); ok {
		c.Defaults.Vendor = v
	}
	if v, ok := lookup(EnvToolSpecURL); ok {
		c.Defaults.ToolSpecURL = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Logging.Format = strings.ToLower(v)
	}

	floats := []struct {
		key string
		set func(float64)
	}{
		{EnvRampAngle, func(f float64) { c.Defaults.RampAngle = f }},
		{EnvRampRate, func(f float64) { c.Defaults.RampRate = &f }},
		{EnvTipLength, func(f float64) { c.Defaults.TipLength = f }},
	}
	for _, fl := range floats {
		v, ok := lookup(fl.key)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeConfigInvalid,
				fmt.Sprintf("%s=%q is not a number", fl.key, v), apperrors.CategoryConfig)
		}
		fl.set(f)
	}
	return nil
}

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}
