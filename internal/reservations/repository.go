package reservations

import (
	"context"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/jsonstore"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
)

// Repository is the reservation collection with lifecycle lookups.
type Repository struct {
	collection *jsonstore.Collection[models.Reservation]
}

// NewRepository wraps the reservation collection.
func NewRepository(collection *jsonstore.Collection[models.Reservation]) *Repository {
	return &Repository{collection: collection}
}

// All returns every reservation.
func (r *Repository) All(ctx context.Context) ([]models.Reservation, error) {
	return r.collection.All(ctx)
}

// FindByID returns the reservation with the given id.
func (r *Repository) FindByID(ctx context.Context, id string) (models.Reservation, error) {
	return r.collection.Get(ctx, id)
}

// ByUser returns the reservations created by a customer.
func (r *Repository) ByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	return r.filter(ctx, func(res models.Reservation) bool { return res.UserID == userID })
}

// ByStore returns the reservations placed against a store's products.
func (r *Repository) ByStore(ctx context.Context, storeID string) ([]models.Reservation, error) {
	return r.filter(ctx, func(res models.Reservation) bool { return res.StoreID == storeID })
}

// HasActiveForProduct reports whether any active reservation references the
// product, excluding the given reservation id.
func (r *Repository) HasActiveForProduct(ctx context.Context, productID, excludeID string) (bool, error) {
	all, err := r.collection.All(ctx)
	if err != nil {
		return false, err
	}
	for _, res := range all {
		if res.ProductID == productID && res.ID != excludeID && res.Status == enums.ReservationStatusActive {
			return true, nil
		}
	}
	return false, nil
}

// Create stores a new reservation.
func (r *Repository) Create(ctx context.Context, res models.Reservation) error {
	return r.collection.Create(ctx, res)
}

// Update applies the patch to the stored reservation.
func (r *Repository) Update(ctx context.Context, id string, patch func(models.Reservation) models.Reservation) (models.Reservation, error) {
	return r.collection.Update(ctx, id, patch)
}

func (r *Repository) filter(ctx context.Context, keep func(models.Reservation) bool) ([]models.Reservation, error) {
	all, err := r.collection.All(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Reservation, 0, len(all))
	for _, res := range all {
		if keep(res) {
			matched = append(matched, res)
		}
	}
	return matched, nil
}
