package differ

import (
	"fmt"
	"slices"

	"github.com/m365ops/contactsync/pkg/errors"
)

// Option is a functional option for configuring a Differ.
type Option func(*differ) error

// WithIgnoredFields excludes fields from comparison. Ignored fields are
// still written when a contact is created.
func WithIgnoredFields(fields ...string) Option {
	return func(d *differ) error {
		known := Fields()
		for _, f := range fields {
			if !slices.Contains(known, f) {
				return errors.NewConfigError("differ", fmt.Sprintf("cannot ignore unknown field %q", f), nil)
			}
			d.ignoreFields[f] = true
		}
		return nil
	}
}
