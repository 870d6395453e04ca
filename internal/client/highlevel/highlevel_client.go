package highlevel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/thepluginfactory/forms-highlevel-bridge/internal/client"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/models"
)

const (
	// Conversations API version header.
	conversationsVersion = "2021-04-15"
	// Contacts and custom fields API version header.
	contactsVersion = "2021-07-28"
)

type HighLevelClient struct {
	baseUrl      string
	token        string
	locationId   string
	httpClient   *http.Client
	schemaClient *http.Client
}

func NewHighLevelClient(token, locationId string) *HighLevelClient {
	return &HighLevelClient{
		baseUrl:    "https://services.leadconnectorhq.com",
		token:      token,
		locationId: locationId,
		// Message-sending calls get 30s, schema fetches 15s.
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		schemaClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HighLevelClient) configured() bool {
	return c.token != "" && c.locationId != ""
}

func (c *HighLevelClient) newRequest(method, path, version string, payload any) (*http.Request, error) {
	var reqBody io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("Error trying to parse body to Json: %w", err)
		}
		reqBody = bytes.NewBuffer(body)
	}

	req, err := http.NewRequest(method, c.baseUrl+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request (highlevel): %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Version", version)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func apiError(statusCode int, body []byte) error {
	var hlErr HighLevelError
	if err := json.Unmarshal(body, &hlErr); err == nil && hlErr.Message != "" {
		return fmt.Errorf("HighLevel error (HTTP %d): %s", statusCode, hlErr.Message)
	}
	return fmt.Errorf("API error status: %d", statusCode)
}

// UpsertContact creates or updates a contact and returns its id.
func (c *HighLevelClient) UpsertContact(payload models.ContactPayload) (string, error) {
	if !c.configured() {
		return "", client.ErrMissingConfig
	}

	req, err := c.newRequest("POST", "/contacts/upsert", contactsVersion, payload)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upsert contact (highlevel): %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body (highlevel): %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apiError(resp.StatusCode, body)
	}

	var upsertResp UpsertContactResponse
	if err := json.Unmarshal(body, &upsertResp); err != nil {
		return "", fmt.Errorf("parse contact response (highlevel): %w", err)
	}
	if upsertResp.Contact.Id == "" {
		return "", fmt.Errorf("contact response without id (highlevel)")
	}

	return upsertResp.Contact.Id, nil
}

// CreateConversation opens a conversation for the contact. The raw response
// body is returned in both the success and the rejection case so callers can
// log it.
func (c *HighLevelClient) CreateConversation(contactID string) ([]byte, error) {
	if !c.configured() {
		return nil, client.ErrMissingConfig
	}

	reqBody := CreateConversationRequest{
		LocationId: c.locationId,
		ContactId:  contactID,
	}

	req, err := c.newRequest("POST", "/conversations/", conversationsVersion, reqBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create conversation (highlevel): %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body (highlevel): %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, apiError(resp.StatusCode, body)
	}

	return body, nil
}

// SendMessage posts a Custom-type message to the contact's conversation.
func (c *HighLevelClient) SendMessage(contactID, message string) ([]byte, error) {
	if !c.configured() {
		return nil, client.ErrMissingConfig
	}

	reqBody := SendMessageRequest{
		Type:      "Custom",
		ContactId: contactID,
		Message:   message,
	}

	req, err := c.newRequest("POST", "/conversations/messages", conversationsVersion, reqBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send message (highlevel): %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body (highlevel): %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, apiError(resp.StatusCode, body)
	}

	return body, nil
}

// GetCustomFields fetches the location's custom field definitions.
func (c *HighLevelClient) GetCustomFields() ([]models.CustomFieldDefinition, error) {
	if !c.configured() {
		return nil, client.ErrMissingConfig
	}

	path := "/locations/" + url.PathEscape(c.locationId) + "/customFields"

	req, err := c.newRequest("GET", path, contactsVersion, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.schemaClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get custom fields (highlevel): %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body (highlevel): %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp.StatusCode, body)
	}

	var fieldsResp GetCustomFieldsResponse
	if err := json.Unmarshal(body, &fieldsResp); err != nil {
		return nil, fmt.Errorf("parse custom fields response (highlevel): %w", err)
	}

	return fieldsResp.CustomFields, nil
}
