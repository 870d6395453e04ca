package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/client"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/models"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/repository"
)

type SubmissionService struct {
	contactClient      client.ContactClient
	conversationClient client.ConversationClient
	mappingRepo        *repository.FormMappingRepository
	submissionRepo     *repository.SubmissionRepository
	locationId         string
}

func NewSubmissionService(
	contactClient client.ContactClient,
	conversationClient client.ConversationClient,
	mappingRepo *repository.FormMappingRepository,
	submissionRepo *repository.SubmissionRepository,
	locationId string,
) *SubmissionService {
	return &SubmissionService{
		contactClient:      contactClient,
		conversationClient: conversationClient,
		mappingRepo:        mappingRepo,
		submissionRepo:     submissionRepo,
		locationId:         locationId,
	}
}

type SubmissionResult struct {
	SubmissionID string
	ContactID    string
	MessageSent  bool
	Status       repository.SubmissionStatus
}

// HandleSubmission runs the whole flow for one form submission: mapping
// lookup, payload build (or the default fallback), contact upsert and the
// optional conversation follow-up. Dispatch failures are logged and recorded
// on the submission's audit row but never returned: the submission itself is
// always considered received. The only error returned besides storage
// failures is a missing token/location configuration, which is detected
// before any network call.
func (s *SubmissionService) HandleSubmission(formID, formTitle string, submitted models.SubmittedValues) (*SubmissionResult, error) {
	sub := &repository.Submission{
		ID:        uuid.NewString(),
		FormID:    formID,
		FormTitle: formTitle,
		Status:    repository.SubmissionStatusReceived,
	}
	if err := s.submissionRepo.Create(sub); err != nil {
		return nil, fmt.Errorf("record submission: %w", err)
	}

	defaults := PayloadDefaults{
		LocationId: s.locationId,
		Source:     formTitle + " (form)",
	}

	var payload models.ContactPayload
	var deferredMessage string

	mapping, err := s.mappingRepo.GetMapping(formID)
	switch {
	case errors.Is(err, repository.ErrNotConfigured):
		payload = BuildDefaultPayload(submitted, defaults)
	case err != nil:
		return nil, fmt.Errorf("load mapping: %w", err)
	default:
		payload, deferredMessage = BuildPayload(mapping, submitted, defaults)
	}

	result := &SubmissionResult{
		SubmissionID: sub.ID,
		Status:       repository.SubmissionStatusReceived,
	}

	contactID, err := s.contactClient.UpsertContact(payload)
	if err != nil {
		if errors.Is(err, client.ErrMissingConfig) {
			return nil, err
		}
		slog.Error("Failed to sync contact",
			"submission_id", sub.ID,
			"form_id", formID,
			"error", err,
		)
		s.submissionRepo.UpdateStatus(sub.ID, repository.SubmissionStatusContactFailed, err.Error())
		result.Status = repository.SubmissionStatusContactFailed
		return result, nil
	}

	if err := s.submissionRepo.SetContact(sub.ID, contactID); err != nil {
		return nil, fmt.Errorf("record contact id: %w", err)
	}
	result.ContactID = contactID
	result.Status = repository.SubmissionStatusContactSynced

	if deferredMessage != "" {
		if s.sendConversationMessage(sub.ID, formID, contactID, deferredMessage) {
			result.MessageSent = true
			result.Status = repository.SubmissionStatusMessageSent
		} else {
			result.Status = repository.SubmissionStatusMessageFailed
		}
	}

	return result, nil
}

// sendConversationMessage runs the two-step conversation follow-up: create a
// conversation for the contact, then post the message to it. Each step fails
// the flow on its own; there is no retry.
func (s *SubmissionService) sendConversationMessage(submissionID, formID, contactID, message string) bool {
	convBody, err := s.conversationClient.CreateConversation(contactID)
	if err != nil {
		slog.Error("Failed to create conversation",
			"submission_id", submissionID,
			"form_id", formID,
			"contact_id", contactID,
			"error", err,
			"response", string(convBody),
		)
		s.submissionRepo.UpdateStatus(submissionID, repository.SubmissionStatusMessageFailed, err.Error())
		return false
	}

	msgBody, err := s.conversationClient.SendMessage(contactID, message)
	if err != nil {
		slog.Error("Failed to send conversation message",
			"submission_id", submissionID,
			"form_id", formID,
			"contact_id", contactID,
			"error", err,
			"response", string(msgBody),
		)
		s.submissionRepo.UpdateStatus(submissionID, repository.SubmissionStatusMessageFailed, err.Error())
		return false
	}

	slog.Info("Conversation message sent to contact",
		"submission_id", submissionID,
		"form_id", formID,
		"contact_id", contactID,
		"message", message,
		"response", string(msgBody),
	)
	s.submissionRepo.UpdateStatus(submissionID, repository.SubmissionStatusMessageSent, "")
	return true
}

func (s *SubmissionService) ListSubmissions(limit int) ([]repository.Submission, error) {
	subs, err := s.submissionRepo.ListRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}
