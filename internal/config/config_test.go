package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at temp dirs so neither a
// real config nor a stray .env leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	work := t.TempDir()
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return work
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://api.stlouisfed.org", c.FREDBaseURL)
	assert.Equal(t, 15*time.Second, c.HTTPTimeout())
	assert.Equal(t, 3, c.RetryMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, c.RetryBaseDelay())
	assert.Equal(t, 4*time.Second, c.RetryMaxDelay())
	assert.Equal(t, 12, c.ForecastHorizon)
	assert.Equal(t, "month", c.ForecastStep)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.FREDAPIKey)
}

func TestLoadPrecedence(t *testing.T) {
	work := isolate(t)
	path := filepath.Join(work, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forecast_horizon: 6\nlog_level: debug\n"), 0o644))
	t.Setenv("MACROLENS_LOG_LEVEL", "warn")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, c.ForecastHorizon, "file beats default")
	assert.Equal(t, "warn", c.LogLevel, "env beats file")
}

func TestLoadDotEnv(t *testing.T) {
	work := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(work, ".env"), []byte("MACROLENS_FRED_API_KEY=fromdotenv\n"), 0o644))
	t.Setenv("MACROLENS_FRED_API_KEY", "")
	os.Unsetenv("MACROLENS_FRED_API_KEY")
	t.Cleanup(func() { os.Unsetenv("MACROLENS_FRED_API_KEY") })

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "fromdotenv", c.FREDAPIKey)
}

func TestLoadRejectsInvalid(t *testing.T) {
	work := isolate(t)
	path := filepath.Join(work, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forecast_step: fortnight\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ForecastStep")
}

func TestSaveAndReload(t *testing.T) {
	isolate(t)
	c := Defaults()
	require.NoError(t, c.Set("fred_api_key", "abcdef123456"))
	require.NoError(t, c.Set("forecast_horizon", "24"))
	require.NoError(t, Save(c, ""))

	p, err := Path("")
	require.NoError(t, err)
	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	back, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "abcdef123456", back.FREDAPIKey)
	assert.Equal(t, 24, back.ForecastHorizon)
}

func TestSetValidates(t *testing.T) {
	c := Defaults()
	assert.Error(t, c.Set("retry_max_attempts", "0"))
	assert.Equal(t, 3, c.RetryMaxAttempts, "invalid value is rolled back")
	assert.Error(t, c.Set("forecast_horizon", "many"))
	assert.Error(t, c.Set("nope", "1"))
	assert.Error(t, c.Set("fred_base_url", "not a url"))
	assert.Equal(t, "https://api.stlouisfed.org", c.FREDBaseURL)
	require.NoError(t, c.Set("forecast_step", "30d"))
	assert.Equal(t, "30d", c.ForecastStep)
}

func TestValuesMasksKey(t *testing.T) {
	c := Defaults()
	c.FREDAPIKey = "abcdef123456"
	vals := c.Values()
	require.Len(t, vals, len(Keys))
	assert.Equal(t, [2]string{"fred_api_key", "********3456"}, vals[0])
	assert.Equal(t, "abcdef123456", c.FREDAPIKey)
}
