package config

import (
	"flag"
	"os"
	"time"

	"github.com/driftdesk/driftdesk-cli/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Only the flags
// it knows are passed to the flag set, so -c/-config stay with parseJson.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-t", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "Drift Desk API base URL")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "unread notification poll interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "API request timeout (in seconds)")
	fs.StringVar(&cfg.DataFile, "d", cfg.DataFile, "local data file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Durations from JSON may carry fractions of a second, so only flags
	// given on the command line replace them.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.PollInterval = time.Duration(*pollInterval) * time.Second
		case "t":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		}
	})
}
