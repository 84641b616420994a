package controllers

import (
	"net/http"

	"github.com/bakhasuleiman/wesavefood-backend/api/middleware"
	"github.com/bakhasuleiman/wesavefood-backend/api/responses"
	"github.com/bakhasuleiman/wesavefood-backend/api/validators"
	"github.com/bakhasuleiman/wesavefood-backend/internal/stores"
	"github.com/bakhasuleiman/wesavefood-backend/internal/users"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/logger"
)

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type updateStoreProfileRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Address     *string  `json:"address"`
	Phone       *string  `json:"phone"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

// UpdateProfile edits the session user's account profile.
func UpdateProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Update(r.Context(), middleware.UserIDFromContext(r.Context()), users.UpdateProfileInput{
			Name:  body.Name,
			Phone: body.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// StoreProfile returns the store owned by the session user.
func StoreProfile(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := svc.ProfileByUser(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

// UpdateStoreProfile edits the store owned by the session user.
func UpdateStoreProfile(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateStoreProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.UpdateByUser(r.Context(), middleware.UserIDFromContext(r.Context()), stores.UpdateStoreInput{
			Name:        body.Name,
			Description: body.Description,
			Address:     body.Address,
			Phone:       body.Phone,
			Lat:         body.Lat,
			Lng:         body.Lng,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}
