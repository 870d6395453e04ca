package highlevel

import "github.com/thepluginfactory/forms-highlevel-bridge/internal/models"

type HighLevelError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

type UpsertContactResponse struct {
	Contact UpsertedContact `json:"contact"`
}

type UpsertedContact struct {
	Id   string `json:"id"`
	New  bool   `json:"new"`
	Name string `json:"contactName"`
}

type CreateConversationRequest struct {
	LocationId string `json:"locationId"`
	ContactId  string `json:"contactId"`
}

type SendMessageRequest struct {
	Type      string `json:"type"`
	ContactId string `json:"contactId"`
	Message   string `json:"message"`
}

type GetCustomFieldsResponse struct {
	CustomFields []models.CustomFieldDefinition `json:"customFields"`
}
