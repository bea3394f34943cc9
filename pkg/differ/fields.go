package differ

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/m365ops/contactsync/internal/utils/ptr"
	"github.com/m365ops/contactsync/pkg/contacts"
	"github.com/m365ops/contactsync/pkg/errors"
)

// listSeparator joins list elements into the single comparison string.
// It cannot appear in phone numbers, IM handles, or address parts.
const listSeparator = "\x1f"

// field binds a body field to its comparable form on both sides.
type field struct {
	name string
	// desired returns the normalized desired value and whether the field is present.
	desired func(b contacts.Body) (string, bool)
	// existing returns the normalized value currently on the mailbox contact.
	existing func(c contacts.MailboxContact) string
	// display renders a normalized value for change reports.
	display func(normalized string) string
	// copy moves the field from src into dst.
	copy func(dst *contacts.Body, src contacts.Body)
}

// fieldMap is the exhaustive list of comparable body fields. Every field
// of contacts.Body must appear here exactly once; see validateFields.
var fieldMap = []field{
	scalar(contacts.FieldGivenName,
		func(b contacts.Body) *string { return b.GivenName },
		func(c contacts.MailboxContact) string { return c.GivenName },
		func(dst *contacts.Body, v *string) { dst.GivenName = v }),
	scalar(contacts.FieldSurname,
		func(b contacts.Body) *string { return b.Surname },
		func(c contacts.MailboxContact) string { return c.Surname },
		func(dst *contacts.Body, v *string) { dst.Surname = v }),
	scalar(contacts.FieldDisplayName,
		func(b contacts.Body) *string { return b.DisplayName },
		func(c contacts.MailboxContact) string { return c.DisplayName },
		func(dst *contacts.Body, v *string) { dst.DisplayName = v }),
	scalar(contacts.FieldCompanyName,
		func(b contacts.Body) *string { return b.CompanyName },
		func(c contacts.MailboxContact) string { return c.CompanyName },
		func(dst *contacts.Body, v *string) { dst.CompanyName = v }),
	scalar(contacts.FieldDepartment,
		func(b contacts.Body) *string { return b.Department },
		func(c contacts.MailboxContact) string { return c.Department },
		func(dst *contacts.Body, v *string) { dst.Department = v }),
	scalar(contacts.FieldJobTitle,
		func(b contacts.Body) *string { return b.JobTitle },
		func(c contacts.MailboxContact) string { return c.JobTitle },
		func(dst *contacts.Body, v *string) { dst.JobTitle = v }),
	list(contacts.FieldBusinessPhones,
		func(b contacts.Body) []string { return b.BusinessPhones },
		func(c contacts.MailboxContact) []string { return c.BusinessPhones },
		func(dst *contacts.Body, v []string) { dst.BusinessPhones = v }),
	scalar(contacts.FieldMobilePhone,
		func(b contacts.Body) *string { return b.MobilePhone },
		func(c contacts.MailboxContact) string { return c.MobilePhone },
		func(dst *contacts.Body, v *string) { dst.MobilePhone = v }),
	{
		// Only the first address is compared; display names are ignored.
		name: contacts.FieldEmailAddresses,
		desired: func(b contacts.Body) (string, bool) {
			if b.EmailAddresses == nil {
				return "", false
			}
			return strings.TrimSpace(b.PrimaryEmail()), true
		},
		existing: func(c contacts.MailboxContact) string {
			return strings.TrimSpace(c.PrimaryEmail())
		},
		display: func(v string) string { return v },
		copy: func(dst *contacts.Body, src contacts.Body) {
			dst.EmailAddresses = append([]contacts.EmailAddress(nil), src.EmailAddresses...)
		},
	},
	{
		name: contacts.FieldBusinessAddress,
		desired: func(b contacts.Body) (string, bool) {
			if b.BusinessAddress == nil {
				return "", false
			}
			return joinNormalized(b.BusinessAddress.Parts()), true
		},
		existing: func(c contacts.MailboxContact) string {
			if c.BusinessAddress == nil {
				return joinNormalized(contacts.Address{}.Parts())
			}
			return joinNormalized(c.BusinessAddress.Parts())
		},
		display: displayAddress,
		copy: func(dst *contacts.Body, src contacts.Body) {
			addr := *src.BusinessAddress
			dst.BusinessAddress = &addr
		},
	},
	list(contacts.FieldIMAddresses,
		func(b contacts.Body) []string { return b.IMAddresses },
		func(c contacts.MailboxContact) []string { return c.IMAddresses },
		func(dst *contacts.Body, v []string) { dst.IMAddresses = v }),
}

// scalar builds a field compared by trimmed string equality.
func scalar(name string,
	get func(contacts.Body) *string,
	have func(contacts.MailboxContact) string,
	set func(*contacts.Body, *string),
) field {
	return field{
		name: name,
		desired: func(b contacts.Body) (string, bool) {
			v := get(b)
			if v == nil {
				return "", false
			}
			return strings.TrimSpace(*v), true
		},
		existing: func(c contacts.MailboxContact) string {
			return strings.TrimSpace(have(c))
		},
		display: func(v string) string { return v },
		copy: func(dst *contacts.Body, src contacts.Body) {
			set(dst, ptr.To(ptr.Deref(get(src))))
		},
	}
}

// list builds a field compared as the ordered concatenation of its trimmed
// elements. Reordering the same elements counts as a change.
func list(name string,
	get func(contacts.Body) []string,
	have func(contacts.MailboxContact) []string,
	set func(*contacts.Body, []string),
) field {
	return field{
		name: name,
		desired: func(b contacts.Body) (string, bool) {
			v := get(b)
			if v == nil {
				return "", false
			}
			return joinNormalized(v), true
		},
		existing: func(c contacts.MailboxContact) string {
			return joinNormalized(have(c))
		},
		display: func(v string) string {
			return strings.ReplaceAll(v, listSeparator, ", ")
		},
		copy: func(dst *contacts.Body, src contacts.Body) {
			set(dst, append([]string{}, get(src)...))
		},
	}
}

func joinNormalized(values []string) string {
	normalized := make([]string, len(values))
	for i, v := range values {
		normalized[i] = strings.TrimSpace(v)
	}
	return strings.Join(normalized, listSeparator)
}

func displayAddress(v string) string {
	var parts []string
	for _, p := range strings.Split(v, listSeparator) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Fields returns the names of all comparable fields in table order.
func Fields() []string {
	names := make([]string, len(fieldMap))
	for i, f := range fieldMap {
		names[i] = f.name
	}
	return names
}

// ValidateFieldMap checks that every contacts.Body field has exactly one
// comparison entry. It is called by New so a gap fails at startup.
func ValidateFieldMap() error {
	return validateFields(fieldMap)
}

func validateFields(table []field) error {
	seen := make(map[string]int, len(table))
	for _, f := range table {
		seen[f.name]++
		if f.desired == nil || f.existing == nil || f.display == nil || f.copy == nil {
			return errors.NewConfigError("differ", fmt.Sprintf("field %s is incompletely mapped", f.name), nil)
		}
	}

	bodyFields := make(map[string]bool)
	t := reflect.TypeOf(contacts.Body{})
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		bodyFields[name] = true
		switch seen[name] {
		case 0:
			return errors.NewConfigError("differ", fmt.Sprintf("body field %s has no comparison mapping", name), nil)
		case 1:
		default:
			return errors.NewConfigError("differ", fmt.Sprintf("body field %s is mapped %d times", name, seen[name]), nil)
		}
	}

	for _, f := range table {
		if !bodyFields[f.name] {
			return errors.NewConfigError("differ", fmt.Sprintf("mapping %s does not name a body field", f.name), nil)
		}
	}
	return nil
}
