package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thepluginfactory/forms-highlevel-bridge/internal/client"
	"github.com/thepluginfactory/forms-highlevel-bridge/internal/service"
)

type FieldHandler struct {
	fieldService *service.FieldService
}

func NewFieldHandler(fieldService *service.FieldService) *FieldHandler {
	return &FieldHandler{
		fieldService: fieldService,
	}
}

func (h *FieldHandler) GetFields(w http.ResponseWriter, r *http.Request) {
	groups := h.fieldService.FieldCatalog()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"groups": groups,
	})
}

func (h *FieldHandler) RefreshFields(w http.ResponseWriter, r *http.Request) {
	fields, message, err := h.fieldService.Refresh()
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, client.ErrMissingConfig) {
			status = http.StatusUnprocessableEntity
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{
			"message": message,
			"error":   err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":      message,
		"custom_count": len(fields),
	})
}
