package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadFrom_Defaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	s, err := LoadFrom(filepath.Join(dir, "settings.json"), filepath.Join(dir, "settings.local.json"))
	require.NoError(t, err)
	assert.Empty(t, s.LogLevel)
	assert.Nil(t, s.Telemetry)
	assert.False(t, s.AutoAllowNonDangerousToolUsage)
}

func TestLoadFrom_LocalOverridesPresentFieldsOnly(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	base := filepath.Join(dir, "settings.json")
	local := filepath.Join(dir, "settings.local.json")
	writeFile(t, base, `{"log_level":"warn","telemetry":true,"autoAllowNonDangerousToolUsage":true}`)
	writeFile(t, local, `{"telemetry":false,"log_level":""}`)

	s, err := LoadFrom(base, local)
	require.NoError(t, err)
	assert.Equal(t, "warn", s.LogLevel, "empty log_level must not override")
	require.NotNil(t, s.Telemetry)
	assert.False(t, *s.Telemetry)
	assert.True(t, s.AutoAllowNonDangerousToolUsage)
}

func TestLoadFrom_LocalOnly(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	local := filepath.Join(dir, "settings.local.json")
	writeFile(t, local, `{"autoAllowNonDangerousToolUsage":true}`)

	s, err := LoadFrom(filepath.Join(dir, "missing.json"), local)
	require.NoError(t, err)
	assert.True(t, s.AutoAllowNonDangerousToolUsage)
}

func TestLoadFrom_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	base := filepath.Join(dir, "settings.json")
	local := filepath.Join(dir, "settings.local.json")

	writeFile(t, base, `{not json`)
	_, err := LoadFrom(base, local)
	require.Error(t, err)

	writeFile(t, base, `{}`)
	writeFile(t, local, `{"telemetry":"yes"}`)
	_, err = LoadFrom(base, local)
	require.ErrorContains(t, err, "telemetry")
}
