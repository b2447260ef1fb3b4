package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CINEREC_BACKEND_URL", "")
	t.Setenv("NEXT_PUBLIC_BACKEND_URL", "")
	t.Setenv("CINEREC_IMAGE_BASE_URL", "")
	t.Setenv("CINEREC_REQUEST_TIMEOUT", "")
	return dir
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := isolate(t)
	yaml := "backend_url: http://localhost:8000/\nrequest_timeout: 3s\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cinerec.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig(Options{EnvFile: filepath.Join(dir, "missing.env"), SearchPaths: []string{dir}})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, DefaultImageBaseURL, cfg.ImageBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestLoadConfigEnvBeatsFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cinerec.yaml"), []byte("backend_url: http://file:1\n"), 0o644))
	t.Setenv("CINEREC_BACKEND_URL", "https://env.example")

	cfg, err := LoadConfig(Options{EnvFile: filepath.Join(dir, "missing.env"), SearchPaths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", cfg.BackendURL)
}

func TestLoadConfigOverrideWins(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CINEREC_BACKEND_URL", "https://env.example")

	cfg, err := LoadConfig(Options{BackendURL: "http://flag:9", EnvFile: filepath.Join(dir, "missing.env"), SearchPaths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, "http://flag:9", cfg.BackendURL)
}

func TestLoadConfigDotEnvFallback(t *testing.T) {
	dir := isolate(t)
	os.Unsetenv("NEXT_PUBLIC_BACKEND_URL")
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("NEXT_PUBLIC_BACKEND_URL=http://dotenv:7000\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("NEXT_PUBLIC_BACKEND_URL") })

	cfg, err := LoadConfig(Options{EnvFile: envFile, SearchPaths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv:7000", cfg.BackendURL)
}

func TestLoadConfigMissingBackend(t *testing.T) {
	dir := isolate(t)
	_, err := LoadConfig(Options{EnvFile: filepath.Join(dir, "missing.env"), SearchPaths: []string{dir}})
	assert.ErrorIs(t, err, ErrMissingBackend)
}

func TestNormalizeBackendURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "http://localhost:8000/", want: "http://localhost:8000"},
		{in: " https://api.example.com/v1 ", want: "https://api.example.com/v1"},
		{in: "ftp://nope", wantErr: true},
		{in: "localhost:8000", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeBackendURL(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
