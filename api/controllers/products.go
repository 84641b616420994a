package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bakhasuleiman/wesavefood-backend/api/middleware"
	"github.com/bakhasuleiman/wesavefood-backend/api/responses"
	"github.com/bakhasuleiman/wesavefood-backend/api/validators"
	"github.com/bakhasuleiman/wesavefood-backend/internal/products"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/logger"
)

type createProductRequest struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	OriginalPrice int64  `json:"originalPrice" validate:"required,gt=0"`
	DiscountPrice int64  `json:"discountPrice" validate:"min=0"`
	ExpiryDate    string `json:"expiryDate" validate:"required"`
	Quantity      int    `json:"quantity" validate:"min=1"`
	Image         string `json:"image"`
}

type updateProductRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	OriginalPrice *int64  `json:"originalPrice"`
	DiscountPrice *int64  `json:"discountPrice"`
	ExpiryDate    *string `json:"expiryDate"`
	Quantity      *int    `json:"quantity"`
	Image         *string `json:"image"`
}

// MyProducts lists the listings of the session user's store.
func MyProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListByOwner(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CreateProduct adds a listing to the session user's store.
func CreateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), products.CreateProductInput{
			Name:          body.Name,
			Description:   body.Description,
			OriginalPrice: body.OriginalPrice,
			DiscountPrice: body.DiscountPrice,
			ExpiryDate:    body.ExpiryDate,
			Quantity:      body.Quantity,
			Image:         body.Image,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct edits a listing owned by the session user's store.
func UpdateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), products.UpdateProductInput{
			Name:          body.Name,
			Description:   body.Description,
			OriginalPrice: body.OriginalPrice,
			DiscountPrice: body.DiscountPrice,
			ExpiryDate:    body.ExpiryDate,
			Quantity:      body.Quantity,
			Image:         body.Image,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a listing owned by the session user's store.
func DeleteProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
