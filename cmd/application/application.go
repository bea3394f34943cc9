// Package application is the seam between the contactsync commands and the
// wiring in cmd/contactsync/app. Commands ask it for the directory source,
// the mailbox store, a mailer and the configured sync options, so tests can
// hand them in-memory fakes through internal/cmd/application.Mock:
//
//	mock := &application.Mock{
//	    DirectoryFunc: func() (reconciler.DirectorySource, error) {
//	        return reconciler.NewMemorySource(records...), nil
//	    },
//	}
//	err := reconcile.ExecuteSync(ctx, mock, opts, &out)
package application

import (
	"github.com/rs/zerolog"

	"github.com/m365ops/contactsync/internal/notify"
	"github.com/m365ops/contactsync/pkg/reconciler"
	"github.com/m365ops/contactsync/pkg/sync"
)

// Application is what a command may ask of the process. Implementations
// build Graph clients lazily, so commands that never touch Graph (version,
// man) run without credentials.
type Application interface {
	// Directory and Contacts are the two sides of a sync.
	Directory() (reconciler.DirectorySource, error)
	Contacts() (reconciler.ContactStore, error)

	// Mailer sends the run summary as the from mailbox.
	Mailer(from string) (notify.Mailer, error)

	// SyncOptions returns a fresh copy of the configured defaults.
	SyncOptions() *sync.Options

	Logger() *zerolog.Logger

	// OutputFormat is table, wide, json or yaml.
	OutputFormat() string

	// Build metadata set at link time.
	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
