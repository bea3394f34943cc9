package reconciler

import (
	"github.com/google/uuid"

	"github.com/m365ops/contactsync/internal/matcher"
	"github.com/m365ops/contactsync/pkg/differ"
	"github.com/m365ops/contactsync/pkg/errors"
)

// options configures a reconciler.
type options struct {
	differ  differ.Differ
	exclude *matcher.Set
	runID   func() string
}

func defaultOptions() (*options, error) {
	d, err := differ.New()
	if err != nil {
		return nil, err
	}
	return &options{
		differ: d,
		runID:  uuid.NewString,
	}, nil
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	defaults, err := defaultOptions()
	if err != nil {
		return nil, err
	}
	return defaults.apply(opts...)
}

// WithDiffer sets the differ used to compute update patches.
func WithDiffer(d differ.Differ) Option {
	return func(o *options) error {
		if d == nil {
			return &errors.ValidationError{
				Field:   "differ",
				Message: "cannot be nil",
			}
		}
		o.differ = d
		return nil
	}
}

// WithRunIDGenerator sets the function that names each run.
func WithRunIDGenerator(fn func() string) Option {
	return func(o *options) error {
		if fn == nil {
			return &errors.ValidationError{
				Field:   "runID",
				Message: "cannot be nil",
			}
		}
		o.runID = fn
		return nil
	}
}

// WithExclude leaves addresses matching any of the glob or regex patterns
// unmanaged. Matching directory records are skipped and matching mailbox
// contacts are never deleted.
func WithExclude(patterns ...string) Option {
	return func(o *options) error {
		set, err := matcher.NewSet(patterns...)
		if err != nil {
			return errors.NewValidationError("exclude", patterns, err.Error())
		}
		o.exclude = set
		return nil
	}
}
