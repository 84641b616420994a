package stores

import (
	"context"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/jsonstore"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
)

// Repository is the store collection with ownership lookups.
type Repository struct {
	collection *jsonstore.Collection[models.Store]
}

// NewRepository wraps the store collection.
func NewRepository(collection *jsonstore.Collection[models.Store]) *Repository {
	return &Repository{collection: collection}
}

// All returns every store.
func (r *Repository) All(ctx context.Context) ([]models.Store, error) {
	return r.collection.All(ctx)
}

// FindByID returns the store with the given id.
func (r *Repository) FindByID(ctx context.Context, id string) (models.Store, error) {
	return r.collection.Get(ctx, id)
}

// FindByUserID returns the store owned by the user, or false when absent.
func (r *Repository) FindByUserID(ctx context.Context, userID string) (models.Store, bool, error) {
	all, err := r.collection.All(ctx)
	if err != nil {
		return models.Store{}, false, err
	}
	for _, store := range all {
		if store.UserID == userID {
			return store, true, nil
		}
	}
	return models.Store{}, false, nil
}

// Create stores a new store record.
func (r *Repository) Create(ctx context.Context, store models.Store) error {
	return r.collection.Create(ctx, store)
}

// Update applies the patch to the stored record.
func (r *Repository) Update(ctx context.Context, id string, patch func(models.Store) models.Store) (models.Store, error) {
	return r.collection.Update(ctx, id, patch)
}
