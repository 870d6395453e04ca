package service

import (
	"strings"
	"unicode"

	"github.com/thepluginfactory/forms-highlevel-bridge/internal/models"
)

// PayloadDefaults is the caller context every payload starts from.
type PayloadDefaults struct {
	LocationId string
	Source     string
}

// dndTruthy is the set of values accepted as "on" for the dnd target,
// compared case-insensitively.
var dndTruthy = map[string]struct{}{
	"1":    {},
	"yes":  {},
	"true": {},
	"on":   {},
}

// BuildPayload transforms one submission into a HighLevel contact payload by
// applying the form's mapping rows in order. Rows whose resolved value is
// empty contribute nothing. A conversation_message row never enters the
// payload; its value is returned separately so the caller can send it after
// the contact exists. Later rows targeting the same attribute overwrite
// earlier ones.
func BuildPayload(mapping []models.MappingRow, submitted models.SubmittedValues, defaults PayloadDefaults) (models.ContactPayload, string) {
	payload := models.ContactPayload{
		LocationID: defaults.LocationId,
		Source:     defaults.Source,
	}

	var customFields []models.CustomFieldEntry
	var deferredMessage string

	for _, row := range mapping {
		value := resolveValue(submitted, row.SourceField)
		if value == "" {
			continue
		}

		switch row.Target {
		case models.TargetFullName:
			first, last := SplitName(value)
			payload.FirstName = first
			payload.LastName = last

		case models.TargetTags:
			payload.Tags = splitTags(value)

		case models.TargetSource:
			payload.Source = value

		case models.TargetDoNotDisturb:
			_, truthy := dndTruthy[strings.ToLower(value)]
			payload.Dnd = &truthy

		case models.TargetMessage:
			customFields = append(customFields, models.CustomFieldEntry{
				Key:   "message",
				Value: value,
			})

		case models.TargetConversationMessage:
			deferredMessage = value

		case models.TargetCustomField:
			if row.CustomKey != "" {
				customFields = append(customFields, models.CustomFieldEntry{
					Key:   row.CustomKey,
					Value: value,
				})
			}

		default:
			// Standard attributes map straight onto the payload; anything
			// else is an unknown future kind and is ignored.
			if row.Target.IsStandard() {
				payload.SetStandard(row.Target, value)
			}
		}
	}

	if len(customFields) > 0 {
		payload.CustomFields = customFields
	}

	return payload, deferredMessage
}

// BuildDefaultPayload is the fallback strategy for forms without a mapping:
// conventionally named fields pass through, the message becomes a custom
// field.
func BuildDefaultPayload(submitted models.SubmittedValues, defaults PayloadDefaults) models.ContactPayload {
	payload := models.ContactPayload{
		LocationID: defaults.LocationId,
		Source:     defaults.Source,
	}

	if name := resolveFirst(submitted, "your-name", "name", "full-name"); name != "" {
		payload.FirstName, payload.LastName = SplitName(name)
	}
	payload.Email = resolveFirst(submitted, "your-email", "email")
	payload.Phone = resolveFirst(submitted, "your-tel", "phone", "tel")

	if message := resolveFirst(submitted, "your-message", "message"); message != "" {
		payload.CustomFields = []models.CustomFieldEntry{{
			Key:   "message",
			Value: message,
		}}
	}

	return payload
}

// SplitName splits a full name on its last whitespace boundary. A name with
// no whitespace is all first name.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	idx := strings.LastIndexFunc(name, unicode.IsSpace)
	if idx < 0 {
		return name, ""
	}
	return strings.TrimSpace(name[:idx]), strings.TrimSpace(name[idx+1:])
}

// resolveValue resolves a source field to a single sanitized string. Missing
// fields resolve to "" and multi-value inputs are joined with ", ".
func resolveValue(submitted models.SubmittedValues, field string) string {
	if field == "" {
		return ""
	}

	raw, ok := submitted[field]
	if !ok {
		return ""
	}

	var value string
	switch v := raw.(type) {
	case string:
		value = v
	case []string:
		value = strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		value = strings.Join(parts, ", ")
	default:
		return ""
	}

	return sanitizeText(value)
}

func resolveFirst(submitted models.SubmittedValues, fields ...string) string {
	for _, field := range fields {
		if value := resolveValue(submitted, field); value != "" {
			return value
		}
	}
	return ""
}

// sanitizeText flattens line breaks and control characters into spaces,
// collapses runs of whitespace and trims the ends.
func sanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if r < 0x20 || unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(b.String())
}

func splitTags(value string) []string {
	pieces := strings.Split(value, ",")
	tags := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if tag := strings.TrimSpace(piece); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
