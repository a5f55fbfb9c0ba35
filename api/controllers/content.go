package controllers

import (
	"net/http"

	"github.com/vegthaliclub/catering-backend/api/responses"
	"github.com/vegthaliclub/catering-backend/internal/content"
)

// SiteContent serves the marketing content in the shape the site expects.
// The payload is not wrapped in a data envelope.
func SiteContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, content.Default())
	}
}
