package products

import (
	"context"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/jsonstore"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
)

// Repository is the product collection with store-scoped lookups.
type Repository struct {
	collection *jsonstore.Collection[models.Product]
}

// NewRepository wraps the product collection.
func NewRepository(collection *jsonstore.Collection[models.Product]) *Repository {
	return &Repository{collection: collection}
}

// All returns every product.
func (r *Repository) All(ctx context.Context) ([]models.Product, error) {
	return r.collection.All(ctx)
}

// FindByID returns the product with the given id.
func (r *Repository) FindByID(ctx context.Context, id string) (models.Product, error) {
	return r.collection.Get(ctx, id)
}

// ByStore returns the products owned by a store.
func (r *Repository) ByStore(ctx context.Context, storeID string) ([]models.Product, error) {
	all, err := r.collection.All(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]models.Product, 0, len(all))
	for _, product := range all {
		if product.StoreID == storeID {
			owned = append(owned, product)
		}
	}
	return owned, nil
}

// Create stores a new product.
func (r *Repository) Create(ctx context.Context, product models.Product) error {
	return r.collection.Create(ctx, product)
}

// Update applies the patch to the stored product.
func (r *Repository) Update(ctx context.Context, id string, patch func(models.Product) models.Product) (models.Product, error) {
	return r.collection.Update(ctx, id, patch)
}

// Delete removes the product.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.collection.Delete(ctx, id)
}
