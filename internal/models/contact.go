package models

// SubmittedValues is one form submission's raw data. Values are either a
// string or a list of strings (checkboxes, multi-selects) as decoded from
// JSON, so the concrete types are string, []string or []any.
type SubmittedValues map[string]any

type CustomFieldEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ContactPayload is the HighLevel contact upsert request body. Field names
// match the API exactly; empty attributes are omitted.
type ContactPayload struct {
	LocationID   string             `json:"locationId"`
	Source       string             `json:"source,omitempty"`
	FirstName    string             `json:"firstName,omitempty"`
	LastName     string             `json:"lastName,omitempty"`
	Email        string             `json:"email,omitempty"`
	Phone        string             `json:"phone,omitempty"`
	CompanyName  string             `json:"companyName,omitempty"`
	Website      string             `json:"website,omitempty"`
	Address1     string             `json:"address1,omitempty"`
	City         string             `json:"city,omitempty"`
	State        string             `json:"state,omitempty"`
	PostalCode   string             `json:"postalCode,omitempty"`
	Country      string             `json:"country,omitempty"`
	Gender       string             `json:"gender,omitempty"`
	DateOfBirth  string             `json:"dateOfBirth,omitempty"`
	Timezone     string             `json:"timezone,omitempty"`
	AssignedTo   string             `json:"assignedTo,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
	Dnd          *bool              `json:"dnd,omitempty"`
	CustomFields []CustomFieldEntry `json:"customFields,omitempty"`
}

// SetStandard assigns a standard attribute by its target kind. Unknown kinds
// are ignored.
func (p *ContactPayload) SetStandard(k TargetKind, value string) {
	switch k {
	case TargetFirstName:
		p.FirstName = value
	case TargetLastName:
		p.LastName = value
	case TargetEmail:
		p.Email = value
	case TargetPhone:
		p.Phone = value
	case TargetCompanyName:
		p.CompanyName = value
	case TargetWebsite:
		p.Website = value
	case TargetAddress1:
		p.Address1 = value
	case TargetCity:
		p.City = value
	case TargetState:
		p.State = value
	case TargetPostalCode:
		p.PostalCode = value
	case TargetCountry:
		p.Country = value
	case TargetGender:
		p.Gender = value
	case TargetDateOfBirth:
		p.DateOfBirth = value
	case TargetTimezone:
		p.Timezone = value
	case TargetAssignedTo:
		p.AssignedTo = value
	}
}
