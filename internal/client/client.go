package client

import (
	"errors"

	"github.com/thepluginfactory/forms-highlevel-bridge/internal/models"
)

// ErrMissingConfig is returned before any network attempt when the API token
// or the location id is not configured.
var ErrMissingConfig = errors.New("API token or Location ID not configured")

type ContactClient interface {
	UpsertContact(payload models.ContactPayload) (string, error)
}

// ConversationClient covers the two-step conversation follow-up. Both calls
// return the raw response body so callers can echo it into their logs.
type ConversationClient interface {
	CreateConversation(contactID string) ([]byte, error)
	SendMessage(contactID, message string) ([]byte, error)
}

type CustomFieldProvider interface {
	GetCustomFields() ([]models.CustomFieldDefinition, error)
}

type CRMProvider interface {
	ContactClient
	ConversationClient
	CustomFieldProvider
}
