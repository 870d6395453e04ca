package service

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/client"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/models"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/repository"
)

// stubCRM fakes the HighLevel client. Contact ids derive from the payload's
// email so tests can match a message back to the submission that produced it.
type stubCRM struct {
	mu            sync.Mutex
	upsertErr     error
	convErr       error
	msgErr        error
	payloads      []models.ContactPayload
	conversations []string
	messages      map[string]string
}

func newStubCRM() *stubCRM {
	return &stubCRM{messages: make(map[string]string)}
}

func (s *stubCRM) UpsertContact(payload models.ContactPayload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return "", s.upsertErr
	}
	s.payloads = append(s.payloads, payload)
	return "contact-" + payload.Email, nil
}

func (s *stubCRM) CreateConversation(contactID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.convErr != nil {
		return []byte(`{"message":"boom"}`), s.convErr
	}
	s.conversations = append(s.conversations, contactID)
	return []byte(`{"conversation":{"id":"conv-1"}}`), nil
}

func (s *stubCRM) SendMessage(contactID, message string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.msgErr != nil {
		return []byte(`{"message":"boom"}`), s.msgErr
	}
	s.messages[contactID] = message
	return []byte(`{"messageId":"msg-1"}`), nil
}

func newTestService(t *testing.T, crm *stubCRM) (*SubmissionService, *repository.FormMappingRepository, *repository.SubmissionRepository) {
	t.Helper()
	db, err := repository.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	// Serialize sqlite access so concurrent submissions don't hit SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	mappingRepo := repository.NewFormMappingRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	svc := NewSubmissionService(crm, crm, mappingRepo, submissionRepo, "L1")
	return svc, mappingRepo, submissionRepo
}

func TestHandleSubmissionMappedFlow(t *testing.T) {
	crm := newStubCRM()
	svc, mappingRepo, submissionRepo := newTestService(t, crm)

	_, err := mappingRepo.SaveMapping("42", []models.MappingRow{
		{SourceField: "name", Target: models.TargetFullName},
		{SourceField: "email", Target: models.TargetEmail},
		{SourceField: "msg", Target: models.TargetConversationMessage},
	})
	require.NoError(t, err)

	result, err := svc.HandleSubmission("42", "Contato", models.SubmittedValues{
		"name":  "Ann Lee",
		"email": "a@x.com",
		"msg":   "Hi there",
	})
	require.NoError(t, err)

	require.Len(t, crm.payloads, 1)
	payload := crm.payloads[0]
	assert.Equal(t, "L1", payload.LocationID)
	assert.Equal(t, "Contato (form)", payload.Source)
	assert.Equal(t, "Ann", payload.FirstName)
	assert.Equal(t, "Lee", payload.LastName)
	assert.Equal(t, "a@x.com", payload.Email)

	assert.Equal(t, []string{"contact-a@x.com"}, crm.conversations)
	assert.Equal(t, "Hi there", crm.messages["contact-a@x.com"])

	assert.True(t, result.MessageSent)
	assert.Equal(t, "contact-a@x.com", result.ContactID)
	assert.Equal(t, repository.SubmissionStatusMessageSent, result.Status)

	subs, err := submissionRepo.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, repository.SubmissionStatusMessageSent, subs[0].Status)
	require.NotNil(t, subs[0].ContactID)
	assert.Equal(t, "contact-a@x.com", *subs[0].ContactID)
}

func TestHandleSubmissionFallsBackToDefaultPayload(t *testing.T) {
	crm := newStubCRM()
	svc, _, _ := newTestService(t, crm)

	result, err := svc.HandleSubmission("42", "Contato", models.SubmittedValues{
		"your-name":  "Ann Lee",
		"your-email": "a@x.com",
	})
	require.NoError(t, err)

	require.Len(t, crm.payloads, 1)
	assert.Equal(t, "Ann", crm.payloads[0].FirstName)
	assert.Equal(t, "a@x.com", crm.payloads[0].Email)

	// No mapping means no conversation_message row, so no conversation flow.
	assert.Empty(t, crm.conversations)
	assert.False(t, result.MessageSent)
	assert.Equal(t, repository.SubmissionStatusContactSynced, result.Status)
}

func TestHandleSubmissionWithoutDeferredMessage(t *testing.T) {
	crm := newStubCRM()
	svc, mappingRepo, _ := newTestService(t, crm)

	_, err := mappingRepo.SaveMapping("42", []models.MappingRow{
		{SourceField: "email", Target: models.TargetEmail},
	})
	require.NoError(t, err)

	result, err := svc.HandleSubmission("42", "Contato", models.SubmittedValues{
		"email": "a@x.com",
	})
	require.NoError(t, err)

	assert.Empty(t, crm.conversations)
	assert.Equal(t, repository.SubmissionStatusContactSynced, result.Status)
}

func TestHandleSubmissionContactFailureIsTerminalButAcknowledged(t *testing.T) {
	crm := newStubCRM()
	crm.upsertErr = errors.New("API error status: 500")
	svc, _, submissionRepo := newTestService(t, crm)

	result, err := svc.HandleSubmission("42", "Contato", models.SubmittedValues{
		"your-email": "a@x.com",
	})
	require.NoError(t, err)

	assert.Equal(t, repository.SubmissionStatusContactFailed, result.Status)
	assert.Empty(t, result.ContactID)
	assert.Empty(t, crm.conversations)

	subs, err := submissionRepo.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, repository.SubmissionStatusContactFailed, subs[0].Status)
	require.NotNil(t, subs[0].ErrorMessage)
	assert.Contains(t, *subs[0].ErrorMessage, "500")
}

func TestHandleSubmissionMissingConfigSurfaces(t *testing.T) {
	crm := newStubCRM()
	crm.upsertErr = client.ErrMissingConfig
	svc, _, _ := newTestService(t, crm)

	_, err := svc.HandleSubmission("42", "Contato", models.SubmittedValues{
		"your-email": "a@x.com",
	})

	assert.ErrorIs(t, err, client.ErrMissingConfig)
}

func TestHandleSubmissionConversationCreateFailure(t *testing.T) {
	crm := newStubCRM()
	crm.convErr = errors.New("API error status: 400")
	svc, mappingRepo, submissionRepo := newTestService(t, crm)

	_, err := mappingRepo.SaveMapping("42", []models.MappingRow{
		{SourceField: "email", Target: models.TargetEmail},
		{SourceField: "msg", Target: models.TargetConversationMessage},
	})
	require.NoError(t, err)

	result, err := svc.HandleSubmission("42", "Contato", models.SubmittedValues{
		"email": "a@x.com",
		"msg":   "Hi there",
	})
	require.NoError(t, err)

	assert.False(t, result.MessageSent)
	assert.Equal(t, repository.SubmissionStatusMessageFailed, result.Status)
	assert.Empty(t, crm.messages)

	subs, err := submissionRepo.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, repository.SubmissionStatusMessageFailed, subs[0].Status)
}

func TestHandleSubmissionMessageSendFailure(t *testing.T) {
	crm := newStubCRM()
	crm.msgErr = errors.New("API error status: 400")
	svc, mappingRepo, _ := newTestService(t, crm)

	_, err := mappingRepo.SaveMapping("42", []models.MappingRow{
		{SourceField: "email", Target: models.TargetEmail},
		{SourceField: "msg", Target: models.TargetConversationMessage},
	})
	require.NoError(t, err)

	result, err := svc.HandleSubmission("42", "Contato", models.SubmittedValues{
		"email": "a@x.com",
		"msg":   "Hi there",
	})
	require.NoError(t, err)

	assert.Len(t, crm.conversations, 1)
	assert.False(t, result.MessageSent)
	assert.Equal(t, repository.SubmissionStatusMessageFailed, result.Status)
}

func TestConcurrentSubmissionsKeepTheirOwnMessages(t *testing.T) {
	crm := newStubCRM()
	svc, mappingRepo, _ := newTestService(t, crm)

	_, err := mappingRepo.SaveMapping("42", []models.MappingRow{
		{SourceField: "email", Target: models.TargetEmail},
		{SourceField: "msg", Target: models.TargetConversationMessage},
	})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("user%d@x.com", i)
			message := fmt.Sprintf("message for user%d", i)
			_, err := svc.HandleSubmission("42", "Contato", models.SubmittedValues{
				"email": email,
				"msg":   message,
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Len(t, crm.messages, workers)
	for i := 0; i < workers; i++ {
		contactID := fmt.Sprintf("contact-user%d@x.com", i)
		assert.Equal(t, fmt.Sprintf("message for user%d", i), crm.messages[contactID])
	}
}
