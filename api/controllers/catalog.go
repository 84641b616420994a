package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bakhasuleiman/wesavefood-backend/api/responses"
	"github.com/bakhasuleiman/wesavefood-backend/api/validators"
	"github.com/bakhasuleiman/wesavefood-backend/internal/products"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/logger"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/pagination"
)

// Catalog lists available products with optional search, discount floor and
// store filters.
func Catalog(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		minDiscount, err := validators.ParseQueryInt(r, "minDiscount", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Catalog(r.Context(), products.CatalogQuery{
			Search:      strings.TrimSpace(r.URL.Query().Get("search")),
			MinDiscount: minDiscount,
			StoreID:     strings.TrimSpace(r.URL.Query().Get("storeId")),
			Limit:       limit,
			Offset:      offset,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CatalogProduct returns a single catalog entry with its store summary.
func CatalogProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}
