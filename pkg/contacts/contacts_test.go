package contacts_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/m365ops/contactsync/internal/utils/ptr"
	"github.com/m365ops/contactsync/pkg/contacts"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "a@x.com", contacts.Key("  A@X.com "))
	assert.Equal(t, "", contacts.Key("   "))

	c := contacts.MailboxContact{EmailAddresses: []contacts.EmailAddress{{Address: " B@x.COM"}, {Address: "c@x.com"}}}
	assert.Equal(t, "b@x.com", c.Key())
	assert.Equal(t, "", contacts.MailboxContact{}.Key())
	assert.Equal(t, "b@x.com", c.Label())
	assert.Equal(t, "Ann", contacts.MailboxContact{DisplayName: "Ann", ID: "1"}.Label())
	assert.Equal(t, "1", contacts.MailboxContact{ID: "1"}.Label())

	assert.Equal(t, "a@x.com", contacts.DirectoryRecord{Mail: "A@x.com "}.Key())
}

func TestAddress(t *testing.T) {
	assert.True(t, contacts.Address{Street: "  "}.IsEmpty())
	assert.False(t, contacts.Address{PostalCode: "1000"}.IsEmpty())
	assert.Equal(t, "1 Main St, Springfield, 1000", contacts.Address{Street: "1 Main St", City: " Springfield", PostalCode: "1000"}.String())
}

func TestBodyFields(t *testing.T) {
	var empty contacts.Body
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, empty.Fields())

	b := contacts.Body{
		JobTitle:       ptr.To("Engineer"),
		BusinessPhones: []string{"111"},
		GivenName:      ptr.To("Ann"),
	}
	assert.False(t, b.IsEmpty())
	assert.Equal(t, []string{contacts.FieldGivenName, contacts.FieldJobTitle, contacts.FieldBusinessPhones}, b.Fields())
	assert.False(t, b.Has("nickName"))
	assert.Len(t, contacts.AllFields(), 11)
}

func TestProject(t *testing.T) {
	tests := []struct {
		name string
		rec  contacts.DirectoryRecord
		want contacts.Body
	}{
		{
			name: "blank scalars are omitted",
			rec: contacts.DirectoryRecord{
				DisplayName: " Ann Lee ",
				GivenName:   "Ann",
				Surname:     "   ",
				Mail:        " ann@x.com ",
			},
			want: contacts.Body{
				DisplayName:    ptr.To("Ann Lee"),
				GivenName:      ptr.To("Ann"),
				EmailAddresses: []contacts.EmailAddress{{Name: "Ann Lee", Address: "ann@x.com"}},
			},
		},
		{
			name: "phones are partitioned by type",
			rec: contacts.DirectoryRecord{
				Mail: "a@x.com",
				Phones: []contacts.Phone{
					{Number: "111", Type: "business"},
					{Number: "222", Type: "Mobile"},
					{Number: "333", Type: "fax"},
					{Number: "444", Type: "BUSINESS"},
					{Number: "555", Type: "mobile"},
					{Number: " ", Type: "business"},
				},
			},
			want: contacts.Body{
				BusinessPhones: []string{"111", "444"},
				MobilePhone:    ptr.To("222"),
				EmailAddresses: []contacts.EmailAddress{{Address: "a@x.com"}},
			},
		},
		{
			name: "only the first address is used",
			rec: contacts.DirectoryRecord{
				Mail: "a@x.com",
				Addresses: []contacts.Address{
					{City: " Oslo ", CountryOrRegion: "NO"},
					{City: "Bergen"},
				},
			},
			want: contacts.Body{
				BusinessAddress: &contacts.Address{City: "Oslo", CountryOrRegion: "NO"},
				EmailAddresses:  []contacts.EmailAddress{{Address: "a@x.com"}},
			},
		},
		{
			name: "blank first address is dropped",
			rec: contacts.DirectoryRecord{
				Mail:      "a@x.com",
				Addresses: []contacts.Address{{Street: " "}, {City: "Bergen"}},
			},
			want: contacts.Body{
				EmailAddresses: []contacts.EmailAddress{{Address: "a@x.com"}},
			},
		},
		{
			name: "typed IM handles win over raw bag",
			rec: contacts.DirectoryRecord{
				Mail:        "a@x.com",
				IMAddresses: []string{"sip:a@x.com", ""},
				Extra:       map[string]any{"imAddresses": []any{"sip:other@x.com"}},
			},
			want: contacts.Body{
				IMAddresses:    []string{"sip:a@x.com"},
				EmailAddresses: []contacts.EmailAddress{{Address: "a@x.com"}},
			},
		},
		{
			name: "raw bag fallback",
			rec: contacts.DirectoryRecord{
				Mail:  "a@x.com",
				Extra: map[string]any{"imAddresses": []any{"sip:a@x.com", 42, " "}},
			},
			want: contacts.Body{
				IMAddresses:    []string{"sip:a@x.com"},
				EmailAddresses: []contacts.EmailAddress{{Address: "a@x.com"}},
			},
		},
		{
			name: "raw bag single string",
			rec: contacts.DirectoryRecord{
				Mail:  "a@x.com",
				Extra: map[string]any{"imAddresses": "sip:a@x.com"},
			},
			want: contacts.Body{
				IMAddresses:    []string{"sip:a@x.com"},
				EmailAddresses: []contacts.EmailAddress{{Address: "a@x.com"}},
			},
		},
		{
			name: "no e-mail means no emailAddresses",
			rec:  contacts.DirectoryRecord{DisplayName: "Nobody"},
			want: contacts.Body{DisplayName: ptr.To("Nobody")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := contacts.Project(tt.rec)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Project() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProjectDoesNotAliasInput(t *testing.T) {
	rec := contacts.DirectoryRecord{
		Mail:        "a@x.com",
		IMAddresses: []string{"sip:a@x.com"},
		Addresses:   []contacts.Address{{City: "Oslo"}},
	}
	body := contacts.Project(rec)
	body.IMAddresses[0] = "changed"
	body.BusinessAddress.City = "changed"

	assert.Equal(t, "sip:a@x.com", rec.IMAddresses[0])
	assert.Equal(t, "Oslo", rec.Addresses[0].City)
}
