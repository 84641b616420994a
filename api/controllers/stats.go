package controllers

import (
	"net/http"

	"github.com/bakhasuleiman/wesavefood-backend/api/middleware"
	"github.com/bakhasuleiman/wesavefood-backend/api/responses"
	"github.com/bakhasuleiman/wesavefood-backend/internal/stats"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/logger"
)

// StoreStats returns the dashboard numbers for the session user's store.
func StoreStats(svc stats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.ForStoreOwner(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
