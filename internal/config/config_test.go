package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tooldecoder/tooldecoder/internal/convert"
	apperrors "github.com/tooldecoder/tooldecoder/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[defaults]
ramp_angle = 10.0
ramp_rate = 4.5
vendor = "Amana"

[logging]
level = "debug"
format = "json"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Defaults.RampAngle)
	require.NotNil(t, cfg.Defaults.RampRate)
	assert.Equal(t, 4.5, *cfg.Defaults.RampRate)
	assert.Equal(t, "Amana", cfg.Defaults.Vendor)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ".tools", cfg.Output.Extension, "unset keys keep defaults")

	s := cfg.Settings()
	assert.Equal(t, 10.0, s.RampAngle)
	require.NotNil(t, s.RampRate)
	assert.Equal(t, 4.5, *s.RampRate)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad toml":      "[defaults\nramp_angle = ",
		"steep ramp":    "[defaults]\nramp_angle = 120.0\n",
		"unknown level": "[logging]\nlevel = \"loud\"\n",
		"bad format":    "[logging]\nformat = \"xml\"\n",
		"bad extension": "[output]\nextension = \"json\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Equal(t, apperrors.CategoryConfig, apperrors.GetCategory(err))
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	rate := 2.0
	cfg.Defaults.RampRate = &rate
	cfg.Defaults.ToolSpecURL = "https://example.com"
	require.NoError(t, cfg.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestSettingsWithoutRampRate(t *testing.T) {
	s := Default().Settings()
	assert.Nil(t, s.RampRate)
	assert.Equal(t, convert.DefaultRampAngle, s.RampAngle)
}

func TestOutputPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("dir", "lib.tools"), cfg.OutputPath(filepath.Join("dir", "lib.vtdb")))

	cfg.Output.Extension = ""
	assert.Equal(t, "lib.tools", cfg.OutputPath("lib.tdb"))
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[defaults]\nvendor = \"FromFile\"\n"), 0o644))

	t.Setenv(EnvVendor, "FromEnv")
	t.Setenv(EnvRampRate, "7.5")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "FromEnv", cfg.Defaults.Vendor)
	require.NotNil(t, cfg.Defaults.RampRate)
	assert.Equal(t, 7.5, *cfg.Defaults.RampRate)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvironmentRejectsBadNumber(t *testing.T) {
	t.Setenv(EnvRampAngle, "steep")

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CategoryConfig, apperrors.GetCategory(err))
}
