// Package app wires the contactsync command: configuration, the logger and
// one Graph client shared by every command, created on first use.
package app

import (
	gosync "sync"

	"github.com/rs/zerolog"

	"github.com/m365ops/contactsync/cmd/application"
	"github.com/m365ops/contactsync/internal/graph"
	"github.com/m365ops/contactsync/internal/notify"
	"github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/reconciler"
	"github.com/m365ops/contactsync/pkg/sync"
)

var _ application.Application = (*App)(nil)

// App implements application.Application on top of Microsoft Graph.
type App struct {
	version, commit, date, builtBy string

	config *Config
	logger *zerolog.Logger

	mu    gosync.Mutex
	graph *graph.Client
}

// New loads configuration from the environment and ~/.contactsync.yaml, then
// applies opts.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	logger := NewLogger(config)

	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		config:  config,
		logger:  &logger,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *App) Version() string { return a.version }
func (a *App) Commit() string  { return a.commit }
func (a *App) Date() string    { return a.date }
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the loaded configuration.
func (a *App) Config() *Config { return a.config }

func (a *App) Logger() *zerolog.Logger { return a.logger }

func (a *App) OutputFormat() string { return a.config.Format }

// SyncOptions returns the configured sync defaults.
func (a *App) SyncOptions() *sync.Options { return a.config.SyncOptions() }

// Graph returns the shared Graph client. Credentials are only required here,
// so version and man work without them.
func (a *App) Graph() (*graph.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.graph == nil {
		creds := a.config.Credentials()
		client, err := graph.New(creds, a.config.GraphOptions()...)
		if err != nil {
			return nil, err
		}
		a.logger.Debug().
			Str("tenant_id", creds.TenantID).
			Str("method", creds.Method()).
			Msg("Created Graph client")
		a.graph = client
	}
	return a.graph, nil
}

// Directory returns the tenant's organization contacts.
func (a *App) Directory() (reconciler.DirectorySource, error) {
	client, err := a.Graph()
	if err != nil {
		return nil, err
	}
	return client.Directory(), nil
}

// Contacts returns the mailbox contact store.
func (a *App) Contacts() (reconciler.ContactStore, error) {
	client, err := a.Graph()
	if err != nil {
		return nil, err
	}
	return client.Contacts(), nil
}

// Mailer sends mail as from.
func (a *App) Mailer(from string) (notify.Mailer, error) {
	client, err := a.Graph()
	if err != nil {
		return nil, err
	}
	return notify.NewGraphMailer(client, from), nil
}

// Option configures an App.
type Option func(*App) error

// WithConfig replaces the loaded configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger replaces the logger built from configuration.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithGraphClient injects a ready client, e.g. one pointed at a test server.
func WithGraphClient(client *graph.Client) Option {
	return func(a *App) error {
		a.graph = client
		return nil
	}
}
