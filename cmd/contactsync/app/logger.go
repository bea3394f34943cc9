package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/m365ops/contactsync/pkg/logging"
)

// NewLogger builds the command logger. An explicit --log-level or LOG_LEVEL
// wins over -q, which wins over -v. The default is info.
func NewLogger(config *Config) zerolog.Logger {
	logConfig := logging.DefaultConfig()
	logConfig.Level = determineLogLevel(config).String()
	if config.LogFormat != "" {
		logConfig.Format = config.LogFormat
	}
	if config.LogOutput != "" {
		logConfig.Output = config.LogOutput
	}
	logConfig.NoColor = logConfig.NoColor || config.NoColor

	return logging.NewLoggerFromConfig(logConfig)
}

func determineLogLevel(config *Config) zerolog.Level {
	if name := strings.TrimSpace(config.LogLevel); name != "" {
		level := logging.ParseLevel(name)
		if level == zerolog.InfoLevel && !strings.EqualFold(name, "info") {
			fmt.Fprintf(os.Stderr, "Warning: unknown log level %q, using info\n", config.LogLevel)
		}
		return level
	}

	switch {
	case config.Quiet:
		if config.Verbose {
			fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet given, using --quiet")
		}
		return zerolog.WarnLevel
	case config.Verbose:
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
