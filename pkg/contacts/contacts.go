// Package contacts defines the records exchanged between the organization
// directory and a mailbox contact folder, and the sparse body used to
// create or patch mailbox contacts.
package contacts

import "strings"

// Phone types recognized on directory records.
const (
	PhoneTypeBusiness = "business"
	PhoneTypeMobile   = "mobile"
)

// Phone is a typed telephone number on a directory record.
type Phone struct {
	Number string `json:"number" yaml:"number"`
	Type   string `json:"type" yaml:"type"`
}

// Address is a postal address. Only the five fields the mailbox contact
// business address supports are carried.
type Address struct {
	Street          string `json:"street,omitempty" yaml:"street,omitempty"`
	City            string `json:"city,omitempty" yaml:"city,omitempty"`
	State           string `json:"state,omitempty" yaml:"state,omitempty"`
	PostalCode      string `json:"postalCode,omitempty" yaml:"postalCode,omitempty"`
	CountryOrRegion string `json:"countryOrRegion,omitempty" yaml:"countryOrRegion,omitempty"`
}

// Parts returns the address fields in canonical order.
func (a Address) Parts() []string {
	return []string{a.Street, a.City, a.State, a.PostalCode, a.CountryOrRegion}
}

// IsEmpty reports whether every field is blank after trimming.
func (a Address) IsEmpty() bool {
	for _, p := range a.Parts() {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}

// String joins the non-empty fields with ", ".
func (a Address) String() string {
	var parts []string
	for _, p := range a.Parts() {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// EmailAddress is a named e-mail address as stored on a mailbox contact.
type EmailAddress struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Address string `json:"address" yaml:"address"`
}

// DirectoryRecord is an organization contact read from the directory.
// It is the source of truth for a sync run and is never modified.
type DirectoryRecord struct {
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	DisplayName string    `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	GivenName   string    `json:"givenName,omitempty" yaml:"givenName,omitempty"`
	Surname     string    `json:"surname,omitempty" yaml:"surname,omitempty"`
	CompanyName string    `json:"companyName,omitempty" yaml:"companyName,omitempty"`
	Department  string    `json:"department,omitempty" yaml:"department,omitempty"`
	JobTitle    string    `json:"jobTitle,omitempty" yaml:"jobTitle,omitempty"`
	Mail        string    `json:"mail,omitempty" yaml:"mail,omitempty"`
	Phones      []Phone   `json:"phones,omitempty" yaml:"phones,omitempty"`
	Addresses   []Address `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	IMAddresses []string  `json:"imAddresses,omitempty" yaml:"imAddresses,omitempty"`

	// Extra holds raw properties the directory returned that have no
	// typed field. IM handles are read from here when IMAddresses is empty.
	Extra map[string]any `json:"-" yaml:"-"`
}

// Key returns the normalized primary e-mail, or "" when the record has none.
func (r DirectoryRecord) Key() string {
	return Key(r.Mail)
}

// MailboxContact is a personal contact stored in the target mailbox.
type MailboxContact struct {
	ID              string         `json:"id" yaml:"id"`
	DisplayName     string         `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	GivenName       string         `json:"givenName,omitempty" yaml:"givenName,omitempty"`
	Surname         string         `json:"surname,omitempty" yaml:"surname,omitempty"`
	CompanyName     string         `json:"companyName,omitempty" yaml:"companyName,omitempty"`
	Department      string         `json:"department,omitempty" yaml:"department,omitempty"`
	JobTitle        string         `json:"jobTitle,omitempty" yaml:"jobTitle,omitempty"`
	BusinessPhones  []string       `json:"businessPhones,omitempty" yaml:"businessPhones,omitempty"`
	MobilePhone     string         `json:"mobilePhone,omitempty" yaml:"mobilePhone,omitempty"`
	EmailAddresses  []EmailAddress `json:"emailAddresses,omitempty" yaml:"emailAddresses,omitempty"`
	BusinessAddress *Address       `json:"businessAddress,omitempty" yaml:"businessAddress,omitempty"`
	IMAddresses     []string       `json:"imAddresses,omitempty" yaml:"imAddresses,omitempty"`
}

// PrimaryEmail returns the first e-mail address on the contact, untrimmed.
func (c MailboxContact) PrimaryEmail() string {
	if len(c.EmailAddresses) == 0 {
		return ""
	}
	return c.EmailAddresses[0].Address
}

// Key returns the normalized primary e-mail, or "" when the contact has none.
func (c MailboxContact) Key() string {
	return Key(c.PrimaryEmail())
}

// Label returns the best human identifier for the contact.
func (c MailboxContact) Label() string {
	if k := c.Key(); k != "" {
		return k
	}
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.ID
}

// Key normalizes an e-mail address into a match key.
func Key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
