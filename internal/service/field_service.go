package service

import (
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/client"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/models"
)

const customFieldsCacheKey = "highlevel_custom_fields"

// FieldService serves the field catalog for the admin mapping UI and caches
// the remote custom-field schema for an hour. Concurrent refreshes may race;
// last writer wins.
type FieldService struct {
	provider client.CustomFieldProvider
	cache    *gocache.Cache
}

func NewFieldService(provider client.CustomFieldProvider) *FieldService {
	return &FieldService{
		provider: provider,
		cache:    gocache.New(time.Hour, 10*time.Minute),
	}
}

// GetCustomFields returns the location's custom field definitions, from
// cache unless forceRefresh is set or the hour expired.
func (s *FieldService) GetCustomFields(forceRefresh bool) ([]models.CustomFieldDefinition, error) {
	if !forceRefresh {
		if cached, ok := s.cache.Get(customFieldsCacheKey); ok {
			return cached.([]models.CustomFieldDefinition), nil
		}
	}

	fields, err := s.provider.GetCustomFields()
	if err != nil {
		return nil, fmt.Errorf("fetch custom fields: %w", err)
	}

	s.cache.Set(customFieldsCacheKey, fields, gocache.DefaultExpiration)
	return fields, nil
}

// Refresh force-fetches the schema and returns an admin-facing message that
// distinguishes missing configuration, remote failure and an empty result.
func (s *FieldService) Refresh() ([]models.CustomFieldDefinition, string, error) {
	fields, err := s.GetCustomFields(true)
	if err != nil {
		if errors.Is(err, client.ErrMissingConfig) {
			return nil, "API token or Location ID not configured. Set HIGHLEVEL_API_TOKEN and HIGHLEVEL_LOCATION_ID.", err
		}
		return nil, "Refresh failed - check API settings", err
	}

	if len(fields) == 0 {
		return fields, "No custom fields found. You may need to enable the Custom Fields scope in your HighLevel Private Integration.", nil
	}

	return fields, fmt.Sprintf("%d custom field(s) loaded from HighLevel.", len(fields)), nil
}

// FieldCatalog returns the grouped targets offered by the mapping UI:
// the standard contact fields plus whatever custom fields the location has.
// A failed schema fetch degrades to the standard groups only.
func (s *FieldService) FieldCatalog() []models.FieldGroup {
	groups := standardFieldGroups()

	customFields, err := s.GetCustomFields(false)
	if err == nil && len(customFields) > 0 {
		group := models.FieldGroup{Label: "Custom Fields (from HighLevel)"}
		for _, field := range customFields {
			if field.FieldKey == "" {
				continue
			}
			label := field.Name
			if label == "" {
				label = field.FieldKey
			}
			group.Fields = append(group.Fields, models.FieldOption{
				Value: field.FieldKey,
				Label: label,
			})
		}
		if len(group.Fields) > 0 {
			groups = append(groups, group)
		}
	}

	groups = append(groups, models.FieldGroup{
		Label: "Custom",
		Fields: []models.FieldOption{
			{Value: string(models.TargetCustomField), Label: "Custom Field (enter key manually)"},
		},
	})

	return groups
}

func standardFieldGroups() []models.FieldGroup {
	return []models.FieldGroup{
		{
			Label: "Name",
			Fields: []models.FieldOption{
				{Value: string(models.TargetFullName), Label: "Full Name (auto-split into first/last)"},
				{Value: string(models.TargetFirstName), Label: "First Name"},
				{Value: string(models.TargetLastName), Label: "Last Name"},
			},
		},
		{
			Label: "Contact",
			Fields: []models.FieldOption{
				{Value: string(models.TargetEmail), Label: "Email"},
				{Value: string(models.TargetPhone), Label: "Phone"},
				{Value: string(models.TargetCompanyName), Label: "Company Name"},
				{Value: string(models.TargetWebsite), Label: "Website"},
			},
		},
		{
			Label: "Address",
			Fields: []models.FieldOption{
				{Value: string(models.TargetAddress1), Label: "Address"},
				{Value: string(models.TargetCity), Label: "City"},
				{Value: string(models.TargetState), Label: "State"},
				{Value: string(models.TargetPostalCode), Label: "Postal Code"},
				{Value: string(models.TargetCountry), Label: "Country"},
			},
		},
		{
			Label: "Message",
			Fields: []models.FieldOption{
				{Value: string(models.TargetMessage), Label: "Message (saved as custom field)"},
				{Value: string(models.TargetConversationMessage), Label: "Message (sent as conversation)"},
			},
		},
		{
			Label: "Other",
			Fields: []models.FieldOption{
				{Value: string(models.TargetSource), Label: "Lead Source"},
				{Value: string(models.TargetTags), Label: "Tags (comma-separated)"},
				{Value: string(models.TargetGender), Label: "Gender"},
				{Value: string(models.TargetDateOfBirth), Label: "Date of Birth"},
				{Value: string(models.TargetTimezone), Label: "Timezone"},
				{Value: string(models.TargetAssignedTo), Label: "Assigned To (HighLevel User ID)"},
				{Value: string(models.TargetDoNotDisturb), Label: "Do Not Disturb"},
			},
		},
	}
}
