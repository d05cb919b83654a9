package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyporeport/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HYPOREPORT_CONFIG", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.Tests.Alpha)
	assert.Equal(t, "two-sided", cfg.Tests.Alternative)
	assert.True(t, cfg.Tests.EqualVariances)
	assert.Equal(t, "mean", cfg.Tests.Center)
	assert.Equal(t, "en", cfg.Report.Language)
	assert.Equal(t, ',', cfg.DelimiterRune())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hyporeport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tests:
  alpha: 0.01
  center: median
report:
  lang: pt
input:
  delimiter: ";"
  decimal_comma: true
`), 0o644))

	t.Setenv("HYPOREPORT_CONFIG", path)
	t.Setenv("HYPOREPORT_ALPHA", "0.1")
	t.Setenv("HYPOREPORT_EQUAL_VAR", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Tests.Alpha, "environment wins over the file")
	assert.Equal(t, "median", cfg.Tests.Center)
	assert.False(t, cfg.Tests.EqualVariances)
	assert.Equal(t, "pt", cfg.Report.Language)
	assert.Equal(t, ';', cfg.DelimiterRune())
	assert.True(t, cfg.Input.DecimalComma)
	assert.Equal(t, 1.5, cfg.Figure.Whisker, "keys missing from the file keep defaults")
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"alpha out of range", "HYPOREPORT_ALPHA", "1"},
		{"alpha not a number", "HYPOREPORT_ALPHA", "abc"},
		{"unknown alternative", "HYPOREPORT_ALTERNATIVE", "sideways"},
		{"unknown center", "HYPOREPORT_CENTER", "mode"},
		{"trim too large", "HYPOREPORT_TRIM", "0.5"},
		{"unknown language", "HYPOREPORT_LANG", "fr"},
		{"unknown format", "HYPOREPORT_FORMAT", "pdf"},
		{"non-positive whisker", "HYPOREPORT_WHISKER", "0"},
		{"negative bins", "HYPOREPORT_BINS", "-3"},
		{"bad boolean", "LOG_DEV", "maybe"},
		{"unknown log level", "LOG_LEVEL", "loud"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HYPOREPORT_CONFIG", "")
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("HYPOREPORT_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
