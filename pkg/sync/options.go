// Package sync provides the options and the result of a mailbox contact sync run.
package sync

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m365ops/contactsync/pkg/errors"
)

// Options controls one sync run.
type Options struct {
	// Target
	Mailbox string // User ID or UPN whose contact folder is synchronized

	// Orchestration control
	Delete      bool          // Remove mailbox contacts that no longer exist in the directory
	DryRun      bool          // Classify and report without writing
	FailOnError bool          // Treat per-contact failures as a failed run
	Timeout     time.Duration // Timeout for the entire run (0 means none)

	// Scope
	Exclude      []string // Glob or regex patterns of addresses left unmanaged
	IgnoreFields []string // Contact fields never compared on update

	// Reporting
	NotifyTo   []string // Recipients of the summary e-mail
	NotifyFrom string   // Mailbox that sends the summary (defaults to Mailbox)
	ReportPath string   // Markdown report file (empty means none)
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default sync options. Deletion is on, matching the
// behavior operators expect from a mirror. There is no run deadline: a run
// finishes the whole list unless --timeout asks for one.
func Defaults() *Options {
	return &Options{Delete: true}
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if strings.TrimSpace(s.Mailbox) == "" {
		return &errors.ValidationError{
			Field:   "Mailbox",
			Message: "target mailbox is required",
		}
	}

	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}

	for _, addr := range s.NotifyTo {
		if _, err := mail.ParseAddress(addr); err != nil {
			return &errors.ValidationError{
				Field:   "NotifyTo",
				Value:   addr,
				Message: "not a valid e-mail address",
			}
		}
	}

	if s.ReportPath != "" {
		dir := filepath.Dir(s.ReportPath)
		if dir != "." && dir != "/" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return &errors.ValidationError{
					Field:   "ReportPath",
					Value:   s.ReportPath,
					Message: "report directory '" + dir + "' does not exist",
				}
			}
		}
	}

	return nil
}

// Sender returns the mailbox that sends the summary e-mail.
func (s *Options) Sender() string {
	if s.NotifyFrom != "" {
		return s.NotifyFrom
	}
	return s.Mailbox
}

// WithMailbox sets the target mailbox.
func WithMailbox(mailbox string) Option {
	return func(opts *Options) {
		opts.Mailbox = strings.TrimSpace(mailbox)
	}
}

// WithDelete enables or disables removal of stale mailbox contacts.
func WithDelete(enabled bool) Option {
	return func(opts *Options) {
		opts.Delete = enabled
	}
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithFailOnError configures whether per-contact failures fail the run.
func WithFailOnError(fail bool) Option {
	return func(opts *Options) {
		opts.FailOnError = fail
	}
}

// WithTimeout configures the sync timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithNotify configures the summary e-mail recipients and optional sender.
func WithNotify(from string, to ...string) Option {
	return func(opts *Options) {
		opts.NotifyFrom = from
		opts.NotifyTo = to
	}
}

// WithExclude configures address patterns the sync leaves alone.
func WithExclude(patterns ...string) Option {
	return func(opts *Options) {
		opts.Exclude = patterns
	}
}

// WithIgnoredFields configures contact fields that are never compared.
func WithIgnoredFields(fields ...string) Option {
	return func(opts *Options) {
		opts.IgnoreFields = fields
	}
}

// WithReportPath configures the Markdown report file.
func WithReportPath(path string) Option {
	return func(opts *Options) {
		opts.ReportPath = path
	}
}
