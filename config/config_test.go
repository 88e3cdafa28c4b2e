package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigVars(t *testing.T) {
	for _, key := range []string{baseURLVar, requestTimeoutVar, startupTimeoutVar} {
		require.NoError(t, os.Unsetenv(key))
	}
}

func setConfigVar(t *testing.T, key, value string) {
	require.NoError(t, os.Setenv(key, value))
	t.Cleanup(func() { _ = os.Unsetenv(key) })
}

func TestLoadDefaults(t *testing.T) {
	clearConfigVars(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.StartupTimeout)
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	clearConfigVars(t)
	setConfigVar(t, baseURLVar, "https://items.example.com:9999/")
	setConfigVar(t, requestTimeoutVar, "5s")
	setConfigVar(t, startupTimeoutVar, "1m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://items.example.com:9999", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.StartupTimeout)
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	clearConfigVars(t)
	setConfigVar(t, requestTimeoutVar, "thirty seconds")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), requestTimeoutVar)
}

func TestLoadRejectsInvalidBaseURL(t *testing.T) {
	clearConfigVars(t)
	setConfigVar(t, baseURLVar, "ftp://items.example.com")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme")
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	clearConfigVars(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, ioutil.WriteFile(envFile,
		[]byte(baseURLVar+"=http://dotenv.example:8081\n"), 0600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		// godotenv loads values into the real environment
		_ = os.Unsetenv(baseURLVar)
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv.example:8081", cfg.BaseURL)
}

func TestRealEnvironmentTakesPrecedenceOverDotEnv(t *testing.T) {
	clearConfigVars(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, ioutil.WriteFile(envFile,
		[]byte(baseURLVar+"=http://dotenv.example:8081\n"), 0600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	setConfigVar(t, baseURLVar, "http://real-env.example:8081")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://real-env.example:8081", cfg.BaseURL)
}

func TestSetBaseURL(t *testing.T) {
	var cfg Config

	require.NoError(t, cfg.SetBaseURL("http://localhost:8081/"))
	assert.Equal(t, "http://localhost:8081", cfg.BaseURL)

	require.NoError(t, cfg.SetBaseURL("https://items.internal"))
	assert.Equal(t, "https://items.internal", cfg.BaseURL)
}

func TestSetBaseURLRejectsBadValues(t *testing.T) {
	var cfg Config

	err := cfg.SetBaseURL("not a url")
	require.Error(t, err)

	err = cfg.SetBaseURL("ftp://items.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme must be http or https")

	err = cfg.SetBaseURL("http://")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing host")

	assert.Equal(t, "", cfg.BaseURL) // failed updates leave the value alone
}
