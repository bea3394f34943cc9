package reconciler

import (
	"github.com/m365ops/contactsync/internal/matcher"
	"github.com/m365ops/contactsync/pkg/contacts"
	"github.com/m365ops/contactsync/pkg/differ"
)

// Action is the operation planned for one record.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
	ActionDelete Action = "delete"
)

// Skip reasons.
const (
	ReasonNoEmail   = "no-email"
	ReasonUnchanged = "unchanged"
	ReasonDuplicate = "duplicate"
	ReasonExcluded  = "excluded"
)

// Step is the planned operation for a directory record or a stale
// mailbox contact.
type Step struct {
	Action Action
	// ID identifies the record in reports: the normalized e-mail when
	// there is one, otherwise a display name or object ID.
	ID string
	// Body is the full desired body for a create.
	Body contacts.Body
	// Update holds the minimal patch for an update.
	Update *differ.ContactUpdate
	// ContactID is the mailbox contact affected by an update or delete.
	ContactID string
	// Reason explains a skip.
	Reason string
}

// Plan is the classification of every record in a run, in execution order:
// directory records in source order, followed by deletions.
type Plan struct {
	Steps []Step
	// Total is the number of directory records considered.
	Total int
	// Duplicates are mailbox contacts whose key was already claimed by an
	// earlier contact. They are neither updated nor deleted.
	Duplicates []contacts.MailboxContact
}

// Count returns how many steps carry the given action.
func (p *Plan) Count(action Action) int {
	n := 0
	for _, s := range p.Steps {
		if s.Action == action {
			n++
		}
	}
	return n
}

// HasChanges reports whether the plan contains any write.
func (p *Plan) HasChanges() bool {
	return p.Count(ActionCreate)+p.Count(ActionUpdate)+p.Count(ActionDelete) > 0
}

// index maps normalized e-mail to the first mailbox contact carrying it.
type index struct {
	byKey      map[string]contacts.MailboxContact
	order      []string
	duplicates []contacts.MailboxContact
}

func newIndex(mailbox []contacts.MailboxContact) *index {
	idx := &index{byKey: make(map[string]contacts.MailboxContact, len(mailbox))}
	for _, c := range mailbox {
		key := c.Key()
		if key == "" {
			continue
		}
		if _, exists := idx.byKey[key]; exists {
			idx.duplicates = append(idx.duplicates, c)
			continue
		}
		idx.byKey[key] = c
		idx.order = append(idx.order, key)
	}
	return idx
}

// plan classifies every record without touching the store.
// Addresses matching exclude are left unmanaged: never written and never
// deleted.
func plan(d differ.Differ, exclude *matcher.Set, directory []contacts.DirectoryRecord, mailbox []contacts.MailboxContact, deleteEnabled bool) *Plan {
	idx := newIndex(mailbox)
	seen := make(map[string]bool, len(directory))
	p := &Plan{
		Total:      len(directory),
		Duplicates: idx.duplicates,
	}

	for _, rec := range directory {
		key := rec.Key()
		if key == "" {
			p.Steps = append(p.Steps, Step{Action: ActionSkip, ID: recordLabel(rec), Reason: ReasonNoEmail})
			continue
		}
		if exclude.Match(key) {
			seen[key] = true
			p.Steps = append(p.Steps, Step{Action: ActionSkip, ID: key, Reason: ReasonExcluded})
			continue
		}
		if seen[key] {
			// A second directory record with the same address would
			// otherwise create or patch the same contact twice.
			p.Steps = append(p.Steps, Step{Action: ActionSkip, ID: key, Reason: ReasonDuplicate})
			continue
		}
		seen[key] = true

		desired := contacts.Project(rec)
		current, exists := idx.byKey[key]
		if !exists {
			p.Steps = append(p.Steps, Step{Action: ActionCreate, ID: key, Body: desired})
			continue
		}

		update := d.Contact(desired, current)
		if !update.HasChanges() {
			p.Steps = append(p.Steps, Step{Action: ActionSkip, ID: key, ContactID: current.ID, Reason: ReasonUnchanged})
			continue
		}
		p.Steps = append(p.Steps, Step{Action: ActionUpdate, ID: key, ContactID: current.ID, Update: update})
	}

	if deleteEnabled {
		for _, key := range idx.order {
			if seen[key] || exclude.Match(key) {
				continue
			}
			p.Steps = append(p.Steps, Step{Action: ActionDelete, ID: key, ContactID: idx.byKey[key].ID})
		}
	}

	return p
}

// recordLabel names a directory record that has no e-mail.
func recordLabel(rec contacts.DirectoryRecord) string {
	switch {
	case rec.Key() != "":
		return rec.Key()
	case rec.DisplayName != "":
		return rec.DisplayName
	case rec.ID != "":
		return rec.ID
	}
	return "(unnamed)"
}
