package models

type TargetKind string

const (
	TargetFirstName   TargetKind = "firstName"
	TargetLastName    TargetKind = "lastName"
	TargetEmail       TargetKind = "email"
	TargetPhone       TargetKind = "phone"
	TargetCompanyName TargetKind = "companyName"
	TargetWebsite     TargetKind = "website"
	TargetAddress1    TargetKind = "address1"
	TargetCity        TargetKind = "city"
	TargetState       TargetKind = "state"
	TargetPostalCode  TargetKind = "postalCode"
	TargetCountry     TargetKind = "country"
	TargetGender      TargetKind = "gender"
	TargetDateOfBirth TargetKind = "dateOfBirth"
	TargetTimezone    TargetKind = "timezone"
	TargetAssignedTo  TargetKind = "assignedTo"

	TargetFullName            TargetKind = "full_name"
	TargetTags                TargetKind = "tags"
	TargetSource              TargetKind = "source"
	TargetDoNotDisturb        TargetKind = "dnd"
	TargetMessage             TargetKind = "message"
	TargetConversationMessage TargetKind = "conversation_message"
	TargetCustomField         TargetKind = "__custom__"
)

var standardTargets = map[TargetKind]struct{}{
	TargetFirstName:   {},
	TargetLastName:    {},
	TargetEmail:       {},
	TargetPhone:       {},
	TargetCompanyName: {},
	TargetWebsite:     {},
	TargetAddress1:    {},
	TargetCity:        {},
	TargetState:       {},
	TargetPostalCode:  {},
	TargetCountry:     {},
	TargetGender:      {},
	TargetDateOfBirth: {},
	TargetTimezone:    {},
	TargetAssignedTo:  {},
}

// IsStandard reports whether the target is a plain contact attribute that maps
// directly onto the payload root. Special targets (full_name, tags, dnd, ...)
// and unknown future kinds are not standard.
func (k TargetKind) IsStandard() bool {
	_, ok := standardTargets[k]
	return ok
}

type MappingRow struct {
	SourceField string     `json:"source_field"`
	Target      TargetKind `json:"target_field"`
	CustomKey   string     `json:"custom_key,omitempty"`
}
