// Package differ detects field level changes between the desired state of a
// mailbox contact and the contact as it is currently stored.
package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/m365ops/contactsync/pkg/contacts"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates a field that was blank on the contact.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates a field whose value differs.
	ChangeTypeUpdate ChangeType = "update"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Path     string     `json:"path" yaml:"path"` // Field name (e.g., "businessPhones")
	OldValue string     `json:"old" yaml:"old"`   // Previous value (display form)
	NewValue string     `json:"new" yaml:"new"`   // New value (display form)
	Type     ChangeType `json:"type" yaml:"type"` // Type of change
}

// String renders the change as "path: old → new".
func (c FieldChange) String() string {
	old := c.OldValue
	if old == "" {
		old = "(empty)"
	}
	return fmt.Sprintf("%s: %s → %s", c.Path, old, c.NewValue)
}

// ContactUpdate represents the minimal update for an existing contact.
type ContactUpdate struct {
	ID      string        `json:"id" yaml:"id"`           // Mailbox contact ID
	Key     string        `json:"key" yaml:"key"`         // Normalized primary e-mail
	Patch   contacts.Body `json:"patch" yaml:"patch"`     // Only the differing fields
	Changes []FieldChange `json:"changes" yaml:"changes"` // Detailed list of field changes
}

// HasChanges returns true if the update carries at least one field.
func (u *ContactUpdate) HasChanges() bool {
	return u != nil && !u.Patch.IsEmpty()
}

// Fields returns the names of the changed fields.
func (u *ContactUpdate) Fields() []string {
	if u == nil {
		return nil
	}
	return u.Patch.Fields()
}

// String returns a one line summary of the update.
func (u *ContactUpdate) String() string {
	if !u.HasChanges() {
		return "No changes detected"
	}
	return fmt.Sprintf("%s: %s", u.Key, strings.Join(u.Fields(), ", "))
}

// Print writes a detailed, human-readable view of the update.
func (u *ContactUpdate) Print(w io.Writer) {
	if !u.HasChanges() {
		return
	}
	fmt.Fprintf(w, "  • %s:\n", u.Key)
	for _, change := range u.Changes {
		fmt.Fprintf(w, "    - %s\n", change)
	}
}
