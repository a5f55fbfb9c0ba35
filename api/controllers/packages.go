package controllers

import (
	"net/http"

	"github.com/vegthaliclub/catering-backend/api/responses"
	"github.com/vegthaliclub/catering-backend/internal/catalog"
)

// ListPackages returns the catalog in display order with resolved step options.
func ListPackages(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, cat.Packages())
	}
}
