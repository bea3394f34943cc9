package reconciler

import (
	"context"
	"fmt"
	"slices"
	gosync "sync"

	"github.com/m365ops/contactsync/pkg/contacts"
)

// memorySource is a test implementation of DirectorySource.
type memorySource struct {
	records []contacts.DirectoryRecord
	err     error
}

// NewMemorySource creates a directory source that returns the given records.
func NewMemorySource(records ...contacts.DirectoryRecord) DirectorySource {
	return &memorySource{records: records}
}

// NewFailingSource creates a directory source whose List always fails.
func NewFailingSource(err error) DirectorySource {
	return &memorySource{err: err}
}

// List returns the configured records.
func (m *memorySource) List(_ context.Context) ([]contacts.DirectoryRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.records), nil
}

// StoreCall records one write made against a MemoryStore.
type StoreCall struct {
	Op      string
	Mailbox string
	ID      string
	Body    contacts.Body
}

// MemoryStore is an in-memory ContactStore for tests. Writes are applied so
// a second run sees the result of the first.
type MemoryStore struct {
	mu       gosync.Mutex
	contacts map[string][]contacts.MailboxContact
	nextID   int

	// Calls lists every write in order.
	Calls []StoreCall
	// ListErr fails List when set.
	ListErr error
	// FailOn fails writes for the given key (normalized e-mail or contact ID).
	FailOn map[string]error
}

// NewMemoryStore creates a store holding the given contacts for mailbox.
func NewMemoryStore(mailbox string, existing ...contacts.MailboxContact) *MemoryStore {
	return &MemoryStore{
		contacts: map[string][]contacts.MailboxContact{mailbox: slices.Clone(existing)},
		FailOn:   map[string]error{},
	}
}

// Contacts returns a copy of the mailbox contents.
func (m *MemoryStore) Contacts(mailbox string) []contacts.MailboxContact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.contacts[mailbox])
}

// CallsFor returns the recorded writes of one kind.
func (m *MemoryStore) CallsFor(op string) []StoreCall {
	var calls []StoreCall
	for _, c := range m.Calls {
		if c.Op == op {
			calls = append(calls, c)
		}
	}
	return calls
}

// List returns the mailbox contacts.
func (m *MemoryStore) List(_ context.Context, mailbox string) ([]contacts.MailboxContact, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Contacts(mailbox), nil
}

// Create adds a contact built from body.
func (m *MemoryStore) Create(_ context.Context, mailbox string, body contacts.Body) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, StoreCall{Op: "create", Mailbox: mailbox, Body: body})
	if err := m.FailOn[contacts.Key(body.PrimaryEmail())]; err != nil {
		return "", err
	}

	m.nextID++
	c := contacts.MailboxContact{ID: fmt.Sprintf("mem-%d", m.nextID)}
	patchContact(&c, body)
	m.contacts[mailbox] = append(m.contacts[mailbox], c)
	return c.ID, nil
}

// Update applies patch to the contact with the given ID.
func (m *MemoryStore) Update(_ context.Context, mailbox, id string, patch contacts.Body) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, StoreCall{Op: "update", Mailbox: mailbox, ID: id, Body: patch})
	if err := m.FailOn[id]; err != nil {
		return err
	}
	for i := range m.contacts[mailbox] {
		if m.contacts[mailbox][i].ID == id {
			patchContact(&m.contacts[mailbox][i], patch)
			return nil
		}
	}
	return fmt.Errorf("contact %s not found", id)
}

// Delete removes the contact with the given ID.
func (m *MemoryStore) Delete(_ context.Context, mailbox, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, StoreCall{Op: "delete", Mailbox: mailbox, ID: id})
	if err := m.FailOn[id]; err != nil {
		return err
	}
	m.contacts[mailbox] = slices.DeleteFunc(m.contacts[mailbox], func(c contacts.MailboxContact) bool {
		return c.ID == id
	})
	return nil
}

// patchContact copies every present body field onto c.
func patchContact(c *contacts.MailboxContact, b contacts.Body) {
	if b.GivenName != nil {
		c.GivenName = *b.GivenName
	}
	if b.Surname != nil {
		c.Surname = *b.Surname
	}
	if b.DisplayName != nil {
		c.DisplayName = *b.DisplayName
	}
	if b.CompanyName != nil {
		c.CompanyName = *b.CompanyName
	}
	if b.Department != nil {
		c.Department = *b.Department
	}
	if b.JobTitle != nil {
		c.JobTitle = *b.JobTitle
	}
	if b.BusinessPhones != nil {
		c.BusinessPhones = slices.Clone(b.BusinessPhones)
	}
	if b.MobilePhone != nil {
		c.MobilePhone = *b.MobilePhone
	}
	if b.EmailAddresses != nil {
		c.EmailAddresses = slices.Clone(b.EmailAddresses)
	}
	if b.BusinessAddress != nil {
		addr := *b.BusinessAddress
		c.BusinessAddress = &addr
	}
	if b.IMAddresses != nil {
		c.IMAddresses = slices.Clone(b.IMAddresses)
	}
}
