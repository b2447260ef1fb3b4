package options

import (
	"github.com/spf13/pflag"
)

// BackendOptions locate the recommendation service and tune logging.
type BackendOptions struct {
	URL      string
	EnvFile  string
	LogLevel string
}

func AddBackendArgs(flags *pflag.FlagSet, o *BackendOptions) {
	flags.StringVar(&o.URL, "backend-url", "",
		"Base URL of the movie service. Overrides CINEREC_BACKEND_URL and the config file.")
	flags.StringVar(&o.EnvFile, "env-file", ".env",
		"dotenv file to read before resolving configuration.")
	flags.StringVar(&o.LogLevel, "log-level", "",
		"Log level: trace, debug, info, warn, error.")
}
