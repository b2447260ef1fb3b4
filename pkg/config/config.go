// Package config loads cinerec settings from flags, environment, .env and
// an optional .cinerec.yaml file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// DefaultImageBaseURL is the poster host the service's paths are relative to.
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"

	envPrefix = "CINEREC"
)

// ErrMissingBackend is returned when no backend URL was configured anywhere.
var ErrMissingBackend = errors.New("config: backend_url is not set (use --backend-url or CINEREC_BACKEND_URL)")

// Config is the resolved runtime configuration.
type Config struct {
	BackendURL     string        `json:"backend_url"`
	ImageBaseURL   string        `json:"image_base_url"`
	LogLevel       string        `json:"log_level"`
	LogFormat      string        `json:"log_format"`
	LogFile        string        `json:"log_file"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

// Options adjusts how LoadConfig resolves values.
type Options struct {
	// BackendURL overrides every other source when non-empty.
	BackendURL string
	// EnvFile is the dotenv file to read; defaults to ".env".
	EnvFile string
	// SearchPaths replaces the default config search path list.
	SearchPaths []string
}

// LoadConfig resolves configuration. Precedence, highest first: Options,
// environment (CINEREC_*), .env file, .cinerec.yaml, defaults.
func LoadConfig(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetDefault("image_base_url", DefaultImageBaseURL)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_file", "~/.cinerec.log")
	v.SetDefault("request_timeout", time.Duration(0))
	v.SetConfigName(".cinerec") // .yaml is implicit
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	for _, p := range searchPaths(opts.SearchPaths) {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	backend := opts.BackendURL
	if backend == "" {
		backend = v.GetString("backend_url")
	}
	if backend == "" {
		// Name used by the web frontend deployments.
		backend = os.Getenv("NEXT_PUBLIC_BACKEND_URL")
	}
	backend, err := NormalizeBackendURL(backend)
	if err != nil {
		return nil, err
	}

	logFile, err := homedir.Expand(v.GetString("log_file"))
	if err != nil {
		return nil, fmt.Errorf("config: expand log_file: %w", err)
	}

	return &Config{
		BackendURL:     backend,
		ImageBaseURL:   strings.TrimRight(v.GetString("image_base_url"), "/"),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
		LogFile:        logFile,
		RequestTimeout: v.GetDuration("request_timeout"),
	}, nil
}

// NormalizeBackendURL validates raw as an absolute http(s) URL and strips any
// trailing slash so endpoint paths can be appended.
func NormalizeBackendURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingBackend
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("config: invalid backend_url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("config: backend_url %q must use http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("config: backend_url %q has no host", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

func searchPaths(override []string) []string {
	if len(override) > 0 {
		return override
	}
	var paths []string
	if p := os.Getenv("CINEREC_CONFIG_PATH"); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, "./")
	if home, err := homedir.Dir(); err == nil {
		paths = append(paths, home)
	}
	return paths
}
