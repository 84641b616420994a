package stats

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
)

type fakeProducts struct {
	byStore map[string][]models.Product
}

func (f *fakeProducts) ByStore(_ context.Context, storeID string) ([]models.Product, error) {
	return f.byStore[storeID], nil
}

type fakeReservations struct {
	byStore map[string][]models.Reservation
}

func (f *fakeReservations) ByStore(_ context.Context, storeID string) ([]models.Reservation, error) {
	return f.byStore[storeID], nil
}

type fakeStores struct {
	byUser map[string]models.Store
}

func (f *fakeStores) FindByUserID(_ context.Context, userID string) (models.Store, bool, error) {
	store, ok := f.byUser[userID]
	return store, ok, nil
}

func TestForStoreOwnerCountsAndRevenue(t *testing.T) {
	products := &fakeProducts{byStore: map[string][]models.Product{
		"store-1": {
			{ID: "p1", DiscountPrice: 7500, Status: enums.ProductStatusSold},
			{ID: "p2", DiscountPrice: 4000, Status: enums.ProductStatusSold},
			{ID: "p3", DiscountPrice: 3000, Status: enums.ProductStatusReserved},
			{ID: "p4", DiscountPrice: 2000, Status: enums.ProductStatusAvailable},
		},
	}}
	reservations := &fakeReservations{byStore: map[string][]models.Reservation{
		"store-1": {
			{ID: "r1", ProductID: "p1", Status: enums.ReservationStatusCompleted},
			{ID: "r2", ProductID: "p2", Status: enums.ReservationStatusCompleted},
			{ID: "r3", ProductID: "p3", Status: enums.ReservationStatusActive},
			{ID: "r4", ProductID: "p4", Status: enums.ReservationStatusCancelled},
		},
	}}
	stores := &fakeStores{byUser: map[string]models.Store{
		"owner-1": {ID: "store-1", UserID: "owner-1"},
	}}

	svc, err := NewService(products, reservations, stores)
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	stats, err := svc.ForStoreOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.Products.Total != 4 || stats.Products.Available != 1 || stats.Products.Reserved != 1 || stats.Products.Sold != 2 {
		t.Fatalf("unexpected product counts: %+v", stats.Products)
	}
	if stats.Reservations.Total != 4 || stats.Reservations.Active != 1 || stats.Reservations.Completed != 2 || stats.Reservations.Cancelled != 1 {
		t.Fatalf("unexpected reservation counts: %+v", stats.Reservations)
	}
	// Only completed reservations count toward revenue: 7500 + 4000.
	if !stats.Revenue.Equal(decimal.NewFromInt(11500)) {
		t.Fatalf("unexpected revenue: %s", stats.Revenue)
	}
}

func TestForStoreOwnerEmptyStore(t *testing.T) {
	svc, err := NewService(
		&fakeProducts{byStore: map[string][]models.Product{}},
		&fakeReservations{byStore: map[string][]models.Reservation{}},
		&fakeStores{byUser: map[string]models.Store{"owner-1": {ID: "store-1", UserID: "owner-1"}}},
	)
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	stats, err := svc.ForStoreOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Products.Total != 0 || stats.Reservations.Total != 0 {
		t.Fatalf("expected zero counts, got %+v", stats)
	}
	if !stats.Revenue.Equal(decimal.Zero) {
		t.Fatalf("expected zero revenue, got %s", stats.Revenue)
	}
}

func TestForStoreOwnerWithoutStore(t *testing.T) {
	svc, err := NewService(
		&fakeProducts{},
		&fakeReservations{},
		&fakeStores{byUser: map[string]models.Store{}},
	)
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	_, err = svc.ForStoreOwner(context.Background(), "nobody")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
