package users

import (
	"context"
	"strings"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/jsonstore"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
)

// Repository is the user collection with identity-specific lookups.
type Repository struct {
	collection *jsonstore.Collection[models.User]
}

// NewRepository wraps the user collection.
func NewRepository(collection *jsonstore.Collection[models.User]) *Repository {
	return &Repository{collection: collection}
}

// FindByID returns the user with the given id.
func (r *Repository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.collection.Get(ctx, id)
}

// FindByEmail returns the user with the given email, or false when absent.
func (r *Repository) FindByEmail(ctx context.Context, email string) (models.User, bool, error) {
	all, err := r.collection.All(ctx)
	if err != nil {
		return models.User{}, false, err
	}
	needle := strings.ToLower(strings.TrimSpace(email))
	for _, user := range all {
		if strings.ToLower(user.Email) == needle {
			return user, true, nil
		}
	}
	return models.User{}, false, nil
}

// Create stores a new user.
func (r *Repository) Create(ctx context.Context, user models.User) error {
	return r.collection.Create(ctx, user)
}

// Update applies the patch to the stored user.
func (r *Repository) Update(ctx context.Context, id string, patch func(models.User) models.User) (models.User, error) {
	return r.collection.Update(ctx, id, patch)
}
