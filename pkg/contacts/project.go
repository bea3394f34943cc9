package contacts

import (
	"strings"

	"github.com/m365ops/contactsync/internal/utils/ptr"
)

// ExtraIMAddresses is the raw property consulted for IM handles when a
// directory record carries none in its typed field.
const ExtraIMAddresses = "imAddresses"

// Project maps a directory record to the desired mailbox contact body.
// A field is present only when its source value is non-blank, so the
// result never clears anything on the target.
func Project(rec DirectoryRecord) Body {
	body := Body{
		GivenName:   ptr.NonBlank(rec.GivenName),
		Surname:     ptr.NonBlank(rec.Surname),
		DisplayName: ptr.NonBlank(rec.DisplayName),
		CompanyName: ptr.NonBlank(rec.CompanyName),
		Department:  ptr.NonBlank(rec.Department),
		JobTitle:    ptr.NonBlank(rec.JobTitle),
	}

	body.BusinessPhones, body.MobilePhone = partitionPhones(rec.Phones)

	if len(rec.Addresses) > 0 && !rec.Addresses[0].IsEmpty() {
		addr := trimAddress(rec.Addresses[0])
		body.BusinessAddress = &addr
	}

	body.IMAddresses = imAddresses(rec)

	if mail := strings.TrimSpace(rec.Mail); mail != "" {
		body.EmailAddresses = []EmailAddress{{
			Name:    strings.TrimSpace(rec.DisplayName),
			Address: mail,
		}}
	}

	return body
}

// partitionPhones splits typed numbers into business numbers and the first
// mobile number. Other types and blank numbers are dropped.
func partitionPhones(phones []Phone) ([]string, *string) {
	var business []string
	var mobile *string
	for _, p := range phones {
		number := strings.TrimSpace(p.Number)
		if number == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(p.Type)) {
		case PhoneTypeBusiness:
			business = append(business, number)
		case PhoneTypeMobile:
			if mobile == nil {
				mobile = ptr.To(number)
			}
		}
	}
	return business, mobile
}

func trimAddress(a Address) Address {
	return Address{
		Street:          strings.TrimSpace(a.Street),
		City:            strings.TrimSpace(a.City),
		State:           strings.TrimSpace(a.State),
		PostalCode:      strings.TrimSpace(a.PostalCode),
		CountryOrRegion: strings.TrimSpace(a.CountryOrRegion),
	}
}

// imAddresses collects IM handles from the typed list, falling back to the
// raw property bag. Returns nil when nothing remains after trimming.
func imAddresses(rec DirectoryRecord) []string {
	handles := compact(rec.IMAddresses)
	if len(handles) > 0 {
		return handles
	}

	switch v := rec.Extra[ExtraIMAddresses].(type) {
	case []string:
		return compact(v)
	case []any:
		raw := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
		return compact(raw)
	case string:
		return compact([]string{v})
	case *string:
		if v != nil {
			return compact([]string{*v})
		}
	}
	return nil
}

// compact trims every entry and drops blanks. Returns nil for an empty result.
func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
