package differ

import (
	"strings"

	"github.com/m365ops/contactsync/pkg/contacts"
)

// Differ handles change detection between a desired contact body and the
// contact currently stored in a mailbox.
type Differ interface {
	// Contact compares the desired body against an existing contact and
	// returns the minimal update, or nil when nothing differs.
	Contact(desired contacts.Body, existing contacts.MailboxContact) *ContactUpdate
}

// differ is the default implementation of Differ.
type differ struct {
	fields       []field
	ignoreFields map[string]bool
}

// New creates a Differ. It fails when the field map does not cover the
// contact body exactly or an option names an unknown field.
func New(opts ...Option) (Differ, error) {
	if err := ValidateFieldMap(); err != nil {
		return nil, err
	}

	d := &differ{
		fields:       fieldMap,
		ignoreFields: make(map[string]bool),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Contact compares each present desired field with the existing contact.
func (diff *differ) Contact(desired contacts.Body, existing contacts.MailboxContact) *ContactUpdate {
	var patch contacts.Body
	changes := []FieldChange{}

	for _, f := range diff.fields {
		if diff.ignoreFields[f.name] {
			continue
		}
		want, ok := f.desired(desired)
		if !ok {
			continue
		}
		have := f.existing(existing)
		if want == have {
			continue
		}

		f.copy(&patch, desired)
		changeType := ChangeTypeUpdate
		if isBlank(have) {
			changeType = ChangeTypeAdd
		}
		changes = append(changes, FieldChange{
			Path:     f.name,
			OldValue: truncateString(f.display(have), 80),
			NewValue: truncateString(f.display(want), 80),
			Type:     changeType,
		})
	}

	if len(changes) == 0 {
		return nil
	}

	return &ContactUpdate{
		ID:      existing.ID,
		Key:     existing.Key(),
		Patch:   patch,
		Changes: changes,
	}
}

// isBlank reports whether a normalized value carries no data.
func isBlank(v string) bool {
	return strings.Trim(v, listSeparator) == ""
}

// truncateString truncates a string to maxLen characters.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
