package graph

import (
	"strings"

	"github.com/microsoft/kiota-abstractions-go/serialization"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	"github.com/m365ops/contactsync/internal/utils/ptr"
	"github.com/m365ops/contactsync/pkg/contacts"
)

// orgContactSelect are the orgContact properties read from the directory.
var orgContactSelect = []string{
	"id", "displayName", "givenName", "surname", "companyName", "department",
	"jobTitle", "mail", "phones", "addresses", "proxyAddresses",
}

// sipPrefix marks the proxy address that carries a contact's IM handle.
const sipPrefix = "sip:"

// contactSelect are the personal contact properties the differ compares.
var contactSelect = []string{
	"id", "displayName", "givenName", "surname", "companyName", "department",
	"jobTitle", "businessPhones", "mobilePhone", "emailAddresses",
	"businessAddress", "imAddresses",
}

// DirectoryRecordFromOrgContact converts a Graph orgContact.
func DirectoryRecordFromOrgContact(oc models.OrgContactable) contacts.DirectoryRecord {
	rec := contacts.DirectoryRecord{
		ID:          ptr.Deref(oc.GetId()),
		DisplayName: ptr.Deref(oc.GetDisplayName()),
		GivenName:   ptr.Deref(oc.GetGivenName()),
		Surname:     ptr.Deref(oc.GetSurname()),
		CompanyName: ptr.Deref(oc.GetCompanyName()),
		Department:  ptr.Deref(oc.GetDepartment()),
		JobTitle:    ptr.Deref(oc.GetJobTitle()),
		Mail:        ptr.Deref(oc.GetMail()),
	}

	for _, p := range oc.GetPhones() {
		if p == nil {
			continue
		}
		phone := contacts.Phone{Number: ptr.Deref(p.GetNumber())}
		if t := p.GetTypeEscaped(); t != nil {
			phone.Type = t.String()
		}
		rec.Phones = append(rec.Phones, phone)
	}

	for _, a := range oc.GetAddresses() {
		if a == nil {
			continue
		}
		rec.Addresses = append(rec.Addresses, contacts.Address{
			Street:          ptr.Deref(a.GetStreet()),
			City:            ptr.Deref(a.GetCity()),
			State:           ptr.Deref(a.GetState()),
			PostalCode:      ptr.Deref(a.GetPostalCode()),
			CountryOrRegion: ptr.Deref(a.GetCountryOrRegion()),
		})
	}

	rec.IMAddresses = sipAddresses(oc.GetProxyAddresses())

	if extra := oc.GetAdditionalData(); len(extra) > 0 {
		rec.Extra = make(map[string]any, len(extra))
		for k, v := range extra {
			rec.Extra[k] = v
		}
		if handles := rawStrings(extra[contacts.ExtraIMAddresses]); len(handles) > 0 {
			rec.Extra[contacts.ExtraIMAddresses] = handles
		}
	}

	return rec
}

// sipAddresses keeps the SIP entries of a proxy address list, with the
// scheme lowercased the way Outlook stores IM handles.
func sipAddresses(proxies []string) []string {
	var out []string
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if len(p) > len(sipPrefix) && strings.EqualFold(p[:len(sipPrefix)], sipPrefix) {
			out = append(out, sipPrefix+p[len(sipPrefix):])
		}
	}
	return out
}

// rawStrings flattens an additional-data value into strings. The JSON parse
// node yields either plain values, pointers, or untyped nodes.
func rawStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case *string:
		if t == nil {
			return nil
		}
		return []string{*t}
	case []string:
		return t
	case []*string:
		var out []string
		for _, s := range t {
			out = append(out, rawStrings(s)...)
		}
		return out
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, rawStrings(item)...)
		}
		return out
	case []serialization.UntypedNodeable:
		var out []string
		for _, item := range t {
			out = append(out, rawStrings(item)...)
		}
		return out
	case serialization.UntypedNodeable:
		if t == nil {
			return nil
		}
		return rawStrings(t.GetValue())
	}
	return nil
}

// MailboxContactFromContact converts a Graph personal contact.
func MailboxContactFromContact(c models.Contactable) contacts.MailboxContact {
	mc := contacts.MailboxContact{
		ID:             ptr.Deref(c.GetId()),
		DisplayName:    ptr.Deref(c.GetDisplayName()),
		GivenName:      ptr.Deref(c.GetGivenName()),
		Surname:        ptr.Deref(c.GetSurname()),
		CompanyName:    ptr.Deref(c.GetCompanyName()),
		Department:     ptr.Deref(c.GetDepartment()),
		JobTitle:       ptr.Deref(c.GetJobTitle()),
		BusinessPhones: c.GetBusinessPhones(),
		MobilePhone:    ptr.Deref(c.GetMobilePhone()),
		IMAddresses:    c.GetImAddresses(),
	}

	for _, e := range c.GetEmailAddresses() {
		if e == nil {
			continue
		}
		mc.EmailAddresses = append(mc.EmailAddresses, contacts.EmailAddress{
			Name:    ptr.Deref(e.GetName()),
			Address: ptr.Deref(e.GetAddress()),
		})
	}

	if a := c.GetBusinessAddress(); a != nil {
		addr := contacts.Address{
			Street:          ptr.Deref(a.GetStreet()),
			City:            ptr.Deref(a.GetCity()),
			State:           ptr.Deref(a.GetState()),
			PostalCode:      ptr.Deref(a.GetPostalCode()),
			CountryOrRegion: ptr.Deref(a.GetCountryOrRegion()),
		}
		if !addr.IsEmpty() {
			mc.BusinessAddress = &addr
		}
	}

	return mc
}

// ContactFromBody builds the request body for a create or patch. Only the
// fields present in b are set, so absent fields are left out of the payload.
func ContactFromBody(b contacts.Body) models.Contactable {
	c := models.NewContact()

	if b.GivenName != nil {
		c.SetGivenName(ptr.To(*b.GivenName))
	}
	if b.Surname != nil {
		c.SetSurname(ptr.To(*b.Surname))
	}
	if b.DisplayName != nil {
		c.SetDisplayName(ptr.To(*b.DisplayName))
	}
	if b.CompanyName != nil {
		c.SetCompanyName(ptr.To(*b.CompanyName))
	}
	if b.Department != nil {
		c.SetDepartment(ptr.To(*b.Department))
	}
	if b.JobTitle != nil {
		c.SetJobTitle(ptr.To(*b.JobTitle))
	}
	if b.BusinessPhones != nil {
		c.SetBusinessPhones(append([]string(nil), b.BusinessPhones...))
	}
	if b.MobilePhone != nil {
		c.SetMobilePhone(ptr.To(*b.MobilePhone))
	}
	if b.EmailAddresses != nil {
		addrs := make([]models.EmailAddressable, 0, len(b.EmailAddresses))
		for _, e := range b.EmailAddresses {
			ea := models.NewEmailAddress()
			ea.SetAddress(ptr.To(e.Address))
			if name := strings.TrimSpace(e.Name); name != "" {
				ea.SetName(ptr.To(name))
			}
			addrs = append(addrs, ea)
		}
		c.SetEmailAddresses(addrs)
	}
	if b.BusinessAddress != nil {
		c.SetBusinessAddress(physicalAddress(*b.BusinessAddress))
	}
	if b.IMAddresses != nil {
		c.SetImAddresses(append([]string(nil), b.IMAddresses...))
	}

	return c
}

// physicalAddress converts a for Graph. Blank parts are omitted, which
// clears them since Graph replaces complex values as a whole.
func physicalAddress(a contacts.Address) models.PhysicalAddressable {
	pa := models.NewPhysicalAddress()
	pa.SetStreet(ptr.NonBlank(a.Street))
	pa.SetCity(ptr.NonBlank(a.City))
	pa.SetState(ptr.NonBlank(a.State))
	pa.SetPostalCode(ptr.NonBlank(a.PostalCode))
	pa.SetCountryOrRegion(ptr.NonBlank(a.CountryOrRegion))
	return pa
}
