package models

type CustomFieldDefinition struct {
	FieldKey string `json:"fieldKey"`
	Name     string `json:"name"`
}

type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldGroup is one dropdown group in the admin mapping UI.
type FieldGroup struct {
	Label  string        `json:"label"`
	Fields []FieldOption `json:"fields"`
}
