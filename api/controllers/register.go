package controllers

import (
	"net/http"

	"github.com/bakhasuleiman/wesavefood-backend/api/responses"
	"github.com/bakhasuleiman/wesavefood-backend/api/validators"
	"github.com/bakhasuleiman/wesavefood-backend/internal/auth"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/config"
	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/logger"
)

type registerCustomerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
}

type registerStoreRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	Name        string   `json:"name" validate:"required"`
	Phone       string   `json:"phone"`
	StoreName   string   `json:"storeName" validate:"required"`
	Description string   `json:"description"`
	Address     string   `json:"address" validate:"required"`
	StorePhone  string   `json:"storePhone"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

// RegisterCustomer onboards a customer account and starts a session.
func RegisterCustomer(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body registerCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.RegisterCustomer(r.Context(), auth.RegisterCustomerInput{
			Email:    body.Email,
			Password: body.Password,
			Name:     body.Name,
			Phone:    body.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, session.UserID)
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

// RegisterStore onboards a store owner with their store and starts a session.
func RegisterStore(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body registerStoreRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.RegisterStore(r.Context(), auth.RegisterStoreInput{
			Email:       body.Email,
			Password:    body.Password,
			Name:        body.Name,
			Phone:       body.Phone,
			StoreName:   body.StoreName,
			Description: body.Description,
			Address:     body.Address,
			StorePhone:  body.StorePhone,
			Lat:         body.Lat,
			Lng:         body.Lng,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, session.UserID)
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}
