package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
)

// Service exposes profile operations for the signed-in user.
type Service interface {
	Get(ctx context.Context, userID string) (*ProfileDTO, error)
	Update(ctx context.Context, userID string, input UpdateProfileInput) (*ProfileDTO, error)
}

// ProfileDTO is the user profile as returned to its owner.
type ProfileDTO struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Name     string         `json:"name"`
	Phone    string         `json:"phone"`
	Role     enums.UserRole `json:"role"`
	PhotoURL string         `json:"photo_url,omitempty"`
}

// UpdateProfileInput holds optional profile mutations. Role is absent on
// purpose: it never changes after creation.
type UpdateProfileInput struct {
	Name  *string
	Phone *string
}

type repository interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, id string, patch func(models.User) models.User) (models.User, error)
}

type service struct {
	repo repository
}

// NewService constructs the profile service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID string) (*ProfileDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileFromModel(user), nil
}

func (s *service) Update(ctx context.Context, userID string, input UpdateProfileInput) (*ProfileDTO, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	updated, err := s.repo.Update(ctx, userID, func(user models.User) models.User {
		if input.Name != nil {
			user.Name = strings.TrimSpace(*input.Name)
		}
		if input.Phone != nil {
			user.Phone = strings.TrimSpace(*input.Phone)
		}
		return user
	})
	if err != nil {
		return nil, err
	}
	return profileFromModel(updated), nil
}

func profileFromModel(user models.User) *ProfileDTO {
	return &ProfileDTO{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Phone:    user.Phone,
		Role:     user.Role,
		PhotoURL: user.PhotoURL,
	}
}
