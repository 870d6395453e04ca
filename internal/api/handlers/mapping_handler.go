package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/thepluginfactory/forms-highlevel-bridge/internal/models"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/repository"
)

type SaveMappingRequestBody struct {
	Mapping []models.MappingRow `json:"mapping"`
}

type MappingHandler struct {
	mappingRepo *repository.FormMappingRepository
}

func NewMappingHandler(mappingRepo *repository.FormMappingRepository) *MappingHandler {
	return &MappingHandler{
		mappingRepo: mappingRepo,
	}
}

func (h *MappingHandler) GetMapping(w http.ResponseWriter, r *http.Request) {
	formID := r.PathValue("id")

	mapping, err := h.mappingRepo.GetMapping(formID)
	if err != nil && !errors.Is(err, repository.ErrNotConfigured) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Error trying to get mapping: " + err.Error(),
		})
		return
	}

	if mapping == nil {
		mapping = []models.MappingRow{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"form_id":    formID,
		"configured": !errors.Is(err, repository.ErrNotConfigured),
		"mapping":    mapping,
	})
}

func (h *MappingHandler) SaveMapping(w http.ResponseWriter, r *http.Request) {
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

	var reqBody SaveMappingRequestBody
	if err := json.Unmarshal(body, &reqBody); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "JSON error: " + err.Error(),
		})
		return
	}

	kept, err := h.mappingRepo.SaveMapping(formID, reqBody.Mapping)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Error trying to save mapping: " + err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"form_id":    formID,
		"configured": len(kept) > 0,
		"mapping":    kept,
	})
}
