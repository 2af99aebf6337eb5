package handlers

import (
	"context"
	"net/http"

	"collegedir/models"
	"collegedir/utils"
)

const maxLeadBody = 64 << 10

type LeadSubmitter interface {
	Submit(ctx context.Context, formType string, body map[string]any) (*models.Lead, error)
}

type LeadHandler struct {
	svc LeadSubmitter
}

func NewLeadHandler(svc LeadSubmitter) *LeadHandler {
	return &LeadHandler{svc: svc}
}

// Submit returns the POST handler for one form type.
func (h *LeadHandler) Submit(formType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxLeadBody)

		var body map[string]any
		if err := utils.ParseJSON(r, &body); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		lead, err := h.svc.Submit(r.Context(), formType, body)
		if err != nil {
			utils.RespondWithAppError(w, r, err, "Error saving form.")
			return
		}
		utils.RespondWithMessage(w, "Form submitted successfully by "+lead.Submitter)
	}
}
