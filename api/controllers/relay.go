package controllers

import (
	"context"
	"net/http"

	"github.com/vegthaliclub/catering-backend/api/responses"
	"github.com/vegthaliclub/catering-backend/api/validators"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
	"github.com/vegthaliclub/catering-backend/pkg/types"
)

// Relayer sends catering and contact requests. Implemented by relay.Service.
type Relayer interface {
	RelayCatering(ctx context.Context, req types.CateringRequest) error
	RelayContact(ctx context.Context, req types.ContactRequest) error
}

type relayResult struct {
	Success bool `json:"success"`
}

// SendCateringEmail relays a submitted order to the catering inbox.
func SendCateringEmail(svc Relayer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CateringRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RelayCatering(r.Context(), req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, relayResult{Success: true})
	}
}

// SendContact relays the general contact form.
func SendContact(svc Relayer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ContactRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		req.Instructions = validators.SanitizeString(req.Instructions, 200)
		if err := svc.RelayContact(r.Context(), req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, relayResult{Success: true})
	}
}
