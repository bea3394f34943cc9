// Package application holds a test double of cmd/application.Application.
package application

import (
	"github.com/rs/zerolog"

	"github.com/m365ops/contactsync/internal/notify"
	"github.com/m365ops/contactsync/pkg/reconciler"
	"github.com/m365ops/contactsync/pkg/sync"
)

// Mock is an Application whose methods call the matching Func field. A nil
// field falls back to in-memory fakes, sync.Defaults, a Nop logger and
// table output, so a test only sets what it checks.
type Mock struct {
	DirectoryFunc    func() (reconciler.DirectorySource, error)
	ContactsFunc     func() (reconciler.ContactStore, error)
	MailerFunc       func(from string) (notify.Mailer, error)
	SyncOptionsFunc  func() *sync.Options
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Directory defaults to an empty source.
func (m *Mock) Directory() (reconciler.DirectorySource, error) {
	if m.DirectoryFunc != nil {
		return m.DirectoryFunc()
	}
	return reconciler.NewMemorySource(), nil
}

// Contacts defaults to an empty store.
func (m *Mock) Contacts() (reconciler.ContactStore, error) {
	if m.ContactsFunc != nil {
		return m.ContactsFunc()
	}
	return reconciler.NewMemoryStore(""), nil
}

// Mailer defaults to nil, which notify.Deliver rejects.
func (m *Mock) Mailer(from string) (notify.Mailer, error) {
	if m.MailerFunc != nil {
		return m.MailerFunc(from)
	}
	return nil, nil
}

// SyncOptions defaults to sync.Defaults.
func (m *Mock) SyncOptions() *sync.Options {
	if m.SyncOptionsFunc != nil {
		return m.SyncOptionsFunc()
	}
	return sync.Defaults()
}

func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat defaults to table.
func (m *Mock) OutputFormat() string { return call(m.OutputFormatFunc, "table") }

func (m *Mock) Version() string { return call(m.VersionFunc, "dev") }
func (m *Mock) Commit() string  { return call(m.CommitFunc, "unknown") }
func (m *Mock) Date() string    { return call(m.DateFunc, "unknown") }
func (m *Mock) BuiltBy() string { return call(m.BuiltByFunc, "unknown") }

func call(fn func() string, fallback string) string {
	if fn == nil {
		return fallback
	}
	return fn()
}
