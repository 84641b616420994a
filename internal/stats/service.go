package stats

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
)

// ProductCountsDTO breaks a store's listings down by status.
type ProductCountsDTO struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Sold      int `json:"sold"`
}

// ReservationCountsDTO breaks a store's reservations down by status.
type ReservationCountsDTO struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// StoreStatsDTO is the stats payload shown on the store dashboard. Revenue
// is the sum of discount prices over completed reservations.
type StoreStatsDTO struct {
	Products     ProductCountsDTO     `json:"products"`
	Reservations ReservationCountsDTO `json:"reservations"`
	Revenue      decimal.Decimal      `json:"revenue"`
}

// Service computes per-store dashboard statistics.
type Service interface {
	ForStoreOwner(ctx context.Context, userID string) (*StoreStatsDTO, error)
}

type productLoader interface {
	ByStore(ctx context.Context, storeID string) ([]models.Product, error)
}

type reservationLoader interface {
	ByStore(ctx context.Context, storeID string) ([]models.Reservation, error)
}

type storeLoader interface {
	FindByUserID(ctx context.Context, userID string) (models.Store, bool, error)
}

type service struct {
	products     productLoader
	reservations reservationLoader
	stores       storeLoader
}

// NewService constructs a stats service instance.
func NewService(products productLoader, reservations reservationLoader, stores storeLoader) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if reservations == nil {
		return nil, fmt.Errorf("reservation loader required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store loader required")
	}
	return &service{products: products, reservations: reservations, stores: stores}, nil
}

func (s *service) ForStoreOwner(ctx context.Context, userID string) (*StoreStatsDTO, error) {
	store, found, err := s.stores.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no store registered for this account")
	}

	products, err := s.products.ByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	reservations, err := s.reservations.ByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	stats := StoreStatsDTO{Revenue: decimal.Zero}
	priceByProduct := make(map[string]int64, len(products))

	for _, product := range products {
		stats.Products.Total++
		priceByProduct[product.ID] = product.DiscountPrice
		switch product.Status {
		case enums.ProductStatusAvailable:
			stats.Products.Available++
		case enums.ProductStatusReserved:
			stats.Products.Reserved++
		case enums.ProductStatusSold:
			stats.Products.Sold++
		}
	}

	for _, res := range reservations {
		stats.Reservations.Total++
		switch res.Status {
		case enums.ReservationStatusActive:
			stats.Reservations.Active++
		case enums.ReservationStatusCompleted:
			stats.Reservations.Completed++
			stats.Revenue = stats.Revenue.Add(decimal.NewFromInt(priceByProduct[res.ProductID]))
		case enums.ReservationStatusCancelled:
			stats.Reservations.Cancelled++
		}
	}

	return &stats, nil
}
