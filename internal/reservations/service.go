package reservations

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
)

// Service drives the reservation state machine. Reservations move from
// active to exactly one of completed or cancelled; both are terminal.
type Service interface {
	Reserve(ctx context.Context, userID, productID string) (*ReservationDTO, error)
	Cancel(ctx context.Context, userID, reservationID string) (*ReservationDTO, error)
	Complete(ctx context.Context, userID, reservationID string) (*ReservationDTO, error)
	ListByCustomer(ctx context.Context, userID string) ([]ReservationDTO, error)
	ListByStoreOwner(ctx context.Context, userID string) ([]ReservationDTO, error)
	Reconcile(ctx context.Context) (RepairReport, error)
}

type productRepository interface {
	All(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (models.Product, error)
	Update(ctx context.Context, id string, patch func(models.Product) models.Product) (models.Product, error)
}

type storeLoader interface {
	FindByUserID(ctx context.Context, userID string) (models.Store, bool, error)
}

type idGenerator func() string

// ServiceParams bundles the reservation service dependencies.
type ServiceParams struct {
	Reservations *Repository
	Products     productRepository
	Stores       storeLoader
	NewID        idGenerator
	Now          func() time.Time
}

type service struct {
	mu       sync.Mutex
	repo     *Repository
	products productRepository
	stores   storeLoader
	newID    idGenerator
	now      func() time.Time
}

// NewService constructs a reservation service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Reservations == nil {
		return nil, fmt.Errorf("reservation repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("store loader required")
	}
	if params.NewID == nil {
		return nil, fmt.Errorf("id generator required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Reservations,
		products: params.Products,
		stores:   params.Stores,
		newID:    params.NewID,
		now:      now,
	}, nil
}

// Reserve places a hold on an available product. The reservation row and the
// product status flip happen under one service lock so two customers cannot
// both win the same product.
func (s *service) Reserve(ctx context.Context, userID, productID string) (*ReservationDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != enums.ProductStatusAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("product is %s and cannot be reserved", product.Status))
	}

	res := models.Reservation{
		ID:        s.newID(),
		UserID:    userID,
		ProductID: productID,
		StoreID:   product.StoreID,
		CreatedAt: s.now().UTC(),
		Status:    enums.ReservationStatusActive,
	}
	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	updated, err := s.products.Update(ctx, productID, func(p models.Product) models.Product {
		p.Status = enums.ProductStatusReserved
		return p
	})
	if err != nil {
		return nil, err
	}

	dto := dtoFromModel(res)
	dto.Product = productSummary(updated)
	return &dto, nil
}

// Cancel releases a customer's hold. Cancelling an already cancelled
// reservation is a no-op; a completed one cannot be cancelled.
func (s *service) Cancel(ctx context.Context, userID, reservationID string) (*ReservationDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.repo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reservation belongs to another user")
	}

	switch res.Status {
	case enums.ReservationStatusCancelled:
		dto := dtoFromModel(res)
		return &dto, nil
	case enums.ReservationStatusCompleted:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "completed reservation cannot be cancelled")
	}

	res, err = s.repo.Update(ctx, reservationID, func(r models.Reservation) models.Reservation {
		r.Status = enums.ReservationStatusCancelled
		return r
	})
	if err != nil {
		return nil, err
	}

	if err := s.releaseProduct(ctx, res.ProductID, res.ID); err != nil {
		return nil, err
	}

	dto := dtoFromModel(res)
	return &dto, nil
}

// Complete marks a reservation as picked up. Only the owner of the store the
// product belongs to may complete it; the product becomes sold.
func (s *service) Complete(ctx context.Context, userID, reservationID string) (*ReservationDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, found, err := s.stores.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no store registered for this account")
	}

	res, err := s.repo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.StoreID != store.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reservation belongs to another store")
	}

	switch res.Status {
	case enums.ReservationStatusCompleted:
		dto := dtoFromModel(res)
		return &dto, nil
	case enums.ReservationStatusCancelled:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled reservation cannot be completed")
	}

	res, err = s.repo.Update(ctx, reservationID, func(r models.Reservation) models.Reservation {
		r.Status = enums.ReservationStatusCompleted
		return r
	})
	if err != nil {
		return nil, err
	}
	updated, err := s.products.Update(ctx, res.ProductID, func(p models.Product) models.Product {
		p.Status = enums.ProductStatusSold
		return p
	})
	if err != nil {
		return nil, err
	}

	dto := dtoFromModel(res)
	dto.Product = productSummary(updated)
	return &dto, nil
}

func (s *service) ListByCustomer(ctx context.Context, userID string) ([]ReservationDTO, error) {
	owned, err := s.repo.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withProducts(ctx, owned)
}

func (s *service) ListByStoreOwner(ctx context.Context, userID string) ([]ReservationDTO, error) {
	store, found, err := s.stores.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no store registered for this account")
	}
	placed, err := s.repo.ByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	return s.withProducts(ctx, placed)
}

// Reconcile repairs product/reservation drift left behind by a crash between
// the two writes of a transition: reserved products with no active
// reservation go back to available, and products still available under an
// active reservation get marked reserved.
func (s *service) Reconcile(ctx context.Context) (RepairReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report RepairReport

	all, err := s.repo.All(ctx)
	if err != nil {
		return report, err
	}
	activeByProduct := make(map[string]bool)
	for _, res := range all {
		if res.Status == enums.ReservationStatusActive {
			activeByProduct[res.ProductID] = true
		}
	}

	products, err := s.products.All(ctx)
	if err != nil {
		return report, err
	}
	for _, product := range products {
		switch {
		case product.Status == enums.ProductStatusReserved && !activeByProduct[product.ID]:
			if _, err := s.products.Update(ctx, product.ID, func(p models.Product) models.Product {
				p.Status = enums.ProductStatusAvailable
				return p
			}); err != nil {
				return report, err
			}
			report.ProductsReleased++
		case product.Status == enums.ProductStatusAvailable && activeByProduct[product.ID]:
			if _, err := s.products.Update(ctx, product.ID, func(p models.Product) models.Product {
				p.Status = enums.ProductStatusReserved
				return p
			}); err != nil {
				return report, err
			}
			report.ProductsReserved++
		}
	}
	return report, nil
}

// releaseProduct flips a reserved product back to available unless another
// active reservation still holds it. Sold products are left untouched.
func (s *service) releaseProduct(ctx context.Context, productID, excludeReservation string) error {
	held, err := s.repo.HasActiveForProduct(ctx, productID, excludeReservation)
	if err != nil {
		return err
	}
	if held {
		return nil
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil
		}
		return err
	}
	if product.Status != enums.ProductStatusReserved {
		return nil
	}
	_, err = s.products.Update(ctx, productID, func(p models.Product) models.Product {
		p.Status = enums.ProductStatusAvailable
		return p
	})
	return err
}

func (s *service) withProducts(ctx context.Context, items []models.Reservation) ([]ReservationDTO, error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	dtos := make([]ReservationDTO, 0, len(items))
	for _, res := range items {
		dto := dtoFromModel(res)
		if product, ok := byID[res.ProductID]; ok {
			dto.Product = productSummary(product)
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}
