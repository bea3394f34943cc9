package contacts

// Body field names as they appear on the wire.
const (
	FieldGivenName       = "givenName"
	FieldSurname         = "surname"
	FieldDisplayName     = "displayName"
	FieldCompanyName     = "companyName"
	FieldDepartment      = "department"
	FieldJobTitle        = "jobTitle"
	FieldBusinessPhones  = "businessPhones"
	FieldMobilePhone     = "mobilePhone"
	FieldEmailAddresses  = "emailAddresses"
	FieldBusinessAddress = "businessAddress"
	FieldIMAddresses     = "imAddresses"
)

// Body is a sparse mailbox contact payload. A nil field is absent and must
// be left untouched on the target; it never means "clear".
//
// The same type serves as the desired state projected from a directory
// record and as the minimal patch sent for an update.
type Body struct {
	GivenName       *string        `json:"givenName,omitempty" yaml:"givenName,omitempty"`
	Surname         *string        `json:"surname,omitempty" yaml:"surname,omitempty"`
	DisplayName     *string        `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	CompanyName     *string        `json:"companyName,omitempty" yaml:"companyName,omitempty"`
	Department      *string        `json:"department,omitempty" yaml:"department,omitempty"`
	JobTitle        *string        `json:"jobTitle,omitempty" yaml:"jobTitle,omitempty"`
	BusinessPhones  []string       `json:"businessPhones,omitempty" yaml:"businessPhones,omitempty"`
	MobilePhone     *string        `json:"mobilePhone,omitempty" yaml:"mobilePhone,omitempty"`
	EmailAddresses  []EmailAddress `json:"emailAddresses,omitempty" yaml:"emailAddresses,omitempty"`
	BusinessAddress *Address       `json:"businessAddress,omitempty" yaml:"businessAddress,omitempty"`
	IMAddresses     []string       `json:"imAddresses,omitempty" yaml:"imAddresses,omitempty"`
}

// Has reports whether the named field is present.
func (b Body) Has(field string) bool {
	switch field {
	case FieldGivenName:
		return b.GivenName != nil
	case FieldSurname:
		return b.Surname != nil
	case FieldDisplayName:
		return b.DisplayName != nil
	case FieldCompanyName:
		return b.CompanyName != nil
	case FieldDepartment:
		return b.Department != nil
	case FieldJobTitle:
		return b.JobTitle != nil
	case FieldBusinessPhones:
		return b.BusinessPhones != nil
	case FieldMobilePhone:
		return b.MobilePhone != nil
	case FieldEmailAddresses:
		return b.EmailAddresses != nil
	case FieldBusinessAddress:
		return b.BusinessAddress != nil
	case FieldIMAddresses:
		return b.IMAddresses != nil
	}
	return false
}

// Fields returns the names of the present fields in declaration order.
func (b Body) Fields() []string {
	var fields []string
	for _, f := range AllFields() {
		if b.Has(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// IsEmpty reports whether no field is present.
func (b Body) IsEmpty() bool {
	return len(b.Fields()) == 0
}

// AllFields returns every body field name in declaration order.
func AllFields() []string {
	return []string{
		FieldGivenName,
		FieldSurname,
		FieldDisplayName,
		FieldCompanyName,
		FieldDepartment,
		FieldJobTitle,
		FieldBusinessPhones,
		FieldMobilePhone,
		FieldEmailAddresses,
		FieldBusinessAddress,
		FieldIMAddresses,
	}
}

// PrimaryEmail returns the first e-mail address in the body, if any.
func (b Body) PrimaryEmail() string {
	if len(b.EmailAddresses) == 0 {
		return ""
	}
	return b.EmailAddresses[0].Address
}
