package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/client"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/models"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/service"
)

type SubmitRequestBody struct {
	FormTitle string                 `json:"form_title"`
	Data      models.SubmittedValues `json:"data"`
}

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	formID := r.PathValue("id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Error trying to read the body: " + err.Error(),
		})
		return
	}

	var reqBody SubmitRequestBody
	if err := json.Unmarshal(body, &reqBody); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "JSON error: " + err.Error(),
		})
		return
	}

	result, err := h.submissionService.HandleSubmission(formID, reqBody.FormTitle, reqBody.Data)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, client.ErrMissingConfig) {
			status = http.StatusUnprocessableEntity
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Error trying to process submission: " + err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"submission_id": result.SubmissionID,
		"contact_id":    result.ContactID,
		"status":        result.Status,
		"message_sent":  result.MessageSent,
	})
}

func (h *SubmissionHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	subs, err := h.submissionService.ListSubmissions(limit)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Error trying to get submissions: " + err.Error(),
		})
		return
	}

	items := make([]map[string]interface{}, 0, len(subs))
	for _, sub := range subs {
		item := map[string]interface{}{
			"id":         sub.ID,
			"form_id":    sub.FormID,
			"form_title": sub.FormTitle,
			"status":     sub.Status,
			"created_at": sub.CreatedAt,
			"age":        humanize.Time(sub.CreatedAt),
		}
		if sub.ContactID != nil {
			item["contact_id"] = *sub.ContactID
		}
		if sub.ErrorMessage != nil {
			item["error_message"] = *sub.ErrorMessage
		}
		items = append(items, item)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"submissions": items,
	})
}
