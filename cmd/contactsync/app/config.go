package app

import (
	stderrors "errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/m365ops/contactsync/internal/graph"
	"github.com/m365ops/contactsync/pkg/constants"
	"github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/sync"
)

// EnvPrefix is the prefix of contactsync environment variables.
const EnvPrefix = "CONTACTSYNC"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Microsoft Graph
	TenantID            string
	ClientID            string
	ClientSecret        string
	CertificatePath     string
	CertificatePassword string
	GraphBaseURL        string
	RateLimit           float64
	RateBurst           int
	RequestTimeout      time.Duration

	// Sync defaults
	Mailbox      string
	Delete       bool
	DryRun       bool
	FailOnError  bool
	Timeout      time.Duration
	Exclude      []string
	IgnoreFields []string
	NotifyTo     []string
	NotifyFrom   string
	ReportPath   string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// envBindings maps config keys to the additional environment variables
// they are read from. CONTACTSYNC_<KEY> always works.
var envBindings = map[string][]string{
	"tenant_id":            {"AZURE_TENANT_ID"},
	"client_id":            {"AZURE_CLIENT_ID"},
	"client_secret":        {"AZURE_CLIENT_SECRET"},
	"certificate_path":     {"AZURE_CLIENT_CERTIFICATE_PATH"},
	"certificate_password": {"AZURE_CLIENT_CERTIFICATE_PASSWORD"},
	"log_level":            {"LOG_LEVEL"},
	"log_format":           {"LOG_FORMAT"},
	"log_output":           {"LOG_OUTPUT"},
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.contactsync.yaml, or the given path)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, envs := range envBindings {
		names := append([]string{key, EnvPrefix + "_" + strings.ToUpper(key)}, envs...)
		if err := v.BindEnv(names...); err != nil {
			return nil, errors.NewConfigError("config", "failed to bind "+key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".contactsync")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "failed to read config file", err)
		}
	}

	config := &Config{
		ConfigFile: v.ConfigFileUsed(),

		TenantID:            v.GetString("tenant_id"),
		ClientID:            v.GetString("client_id"),
		ClientSecret:        v.GetString("client_secret"),
		CertificatePath:     v.GetString("certificate_path"),
		CertificatePassword: v.GetString("certificate_password"),
		GraphBaseURL:        v.GetString("graph_base_url"),
		RateLimit:           v.GetFloat64("rate_limit"),
		RateBurst:           v.GetInt("rate_burst"),
		RequestTimeout:      v.GetDuration("request_timeout"),

		Mailbox:      v.GetString("mailbox"),
		Delete:       v.GetBool("delete"),
		DryRun:       v.GetBool("dry_run"),
		FailOnError:  v.GetBool("fail_on_error"),
		Timeout:      v.GetDuration("timeout"),
		Exclude:      trimList(v.GetStringSlice("exclude")),
		IgnoreFields: splitList(v.GetStringSlice("ignore_fields")),
		NotifyTo:     splitList(v.GetStringSlice("notify_to")),
		NotifyFrom:   v.GetString("notify_from"),
		ReportPath:   v.GetString("report"),

		Format:    v.GetString("format"),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("delete", true)
	v.SetDefault("rate_limit", constants.DefaultRequestsPerSecond)
	v.SetDefault("rate_burst", constants.DefaultBurstSize)
	v.SetDefault("request_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Credentials returns the Graph credentials.
func (c *Config) Credentials() graph.Credentials {
	return graph.Credentials{
		TenantID:            c.TenantID,
		ClientID:            c.ClientID,
		ClientSecret:        c.ClientSecret,
		CertificatePath:     c.CertificatePath,
		CertificatePassword: c.CertificatePassword,
	}
}

// GraphOptions returns the Graph client options.
func (c *Config) GraphOptions() []graph.Option {
	opts := []graph.Option{
		graph.WithRateLimit(graph.RateLimitConfig{
			RequestsPerSecond: c.RateLimit,
			BurstSize:         c.RateBurst,
		}),
		graph.WithRequestTimeout(c.RequestTimeout),
	}
	if c.GraphBaseURL != "" {
		opts = append(opts, graph.WithBaseURL(c.GraphBaseURL))
	}
	return opts
}

// SyncOptions returns the configured sync defaults.
func (c *Config) SyncOptions() *sync.Options {
	opts := sync.Defaults().Apply(
		sync.WithMailbox(c.Mailbox),
		sync.WithDelete(c.Delete),
		sync.WithDryRun(c.DryRun),
		sync.WithFailOnError(c.FailOnError),
		sync.WithReportPath(c.ReportPath),
		sync.WithExclude(c.Exclude...),
		sync.WithIgnoredFields(c.IgnoreFields...),
	)
	if c.Timeout > 0 {
		opts.Timeout = c.Timeout
	}
	if len(c.NotifyTo) > 0 {
		opts.Apply(sync.WithNotify(c.NotifyFrom, c.NotifyTo...))
	}
	return opts
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// trimList drops blank entries without splitting, since patterns may carry
// commas (re:^svc-\d{1,3}@). In the environment, patterns are separated by
// whitespace.
func trimList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// splitList accepts both YAML lists and comma-separated environment values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
