package stores

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/types"
)

const defaultNearbyRadiusMeters = 5000

// Service exposes store discovery and profile management.
type Service interface {
	List(ctx context.Context) ([]StoreDTO, error)
	GetByID(ctx context.Context, id string) (*StoreDTO, error)
	Nearby(ctx context.Context, lat, lng, radiusMeters float64) ([]NearbyStoreDTO, error)
	ProfileByUser(ctx context.Context, userID string) (*StoreDTO, error)
	UpdateByUser(ctx context.Context, userID string, input UpdateStoreInput) (*StoreDTO, error)
	FindByUserID(ctx context.Context, userID string) (models.Store, bool, error)
	CreateForUser(ctx context.Context, userID string, input CreateStoreInput) (models.Store, error)
}

type repository interface {
	All(ctx context.Context) ([]models.Store, error)
	FindByID(ctx context.Context, id string) (models.Store, error)
	FindByUserID(ctx context.Context, userID string) (models.Store, bool, error)
	Create(ctx context.Context, store models.Store) error
	Update(ctx context.Context, id string, patch func(models.Store) models.Store) (models.Store, error)
}

type geocoder interface {
	Enabled() bool
	Geocode(ctx context.Context, address string) (types.Location, error)
}

type idGenerator func() string

type service struct {
	repo     repository
	geocoder geocoder
	newID    idGenerator
}

// NewService constructs a store service. The geocoder may be nil.
func NewService(repo repository, geo geocoder, newID idGenerator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if newID == nil {
		return nil, fmt.Errorf("id generator required")
	}
	return &service{repo: repo, geocoder: geo, newID: newID}, nil
}

func (s *service) List(ctx context.Context) ([]StoreDTO, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]StoreDTO, 0, len(all))
	for _, store := range all {
		dtos = append(dtos, dtoFromModel(store))
	}
	return dtos, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := dtoFromModel(store)
	return &dto, nil
}

// Nearby returns stores within the radius, closest first. Stores without a
// known location are skipped.
func (s *service) Nearby(ctx context.Context, lat, lng, radiusMeters float64) ([]NearbyStoreDTO, error) {
	if radiusMeters <= 0 {
		radiusMeters = defaultNearbyRadiusMeters
	}
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	origin := orb.Point{lng, lat}
	nearby := make([]NearbyStoreDTO, 0, len(all))
	for _, store := range all {
		if store.Location.IsZero() {
			continue
		}
		distance := orbgeo.Distance(origin, store.Location.Point())
		if distance > radiusMeters {
			continue
		}
		nearby = append(nearby, NearbyStoreDTO{
			StoreDTO:       dtoFromModel(store),
			DistanceMeters: distance,
		})
	}
	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})
	return nearby, nil
}

func (s *service) ProfileByUser(ctx context.Context, userID string) (*StoreDTO, error) {
	store, found, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store profile not found")
	}
	dto := dtoFromModel(store)
	return &dto, nil
}

func (s *service) UpdateByUser(ctx context.Context, userID string, input UpdateStoreInput) (*StoreDTO, error) {
	store, found, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store profile not found")
	}

	location := store.Location
	if input.Lat != nil && input.Lng != nil {
		location = types.Location{Lat: *input.Lat, Lng: *input.Lng}
	} else if input.Address != nil && *input.Address != store.Address {
		if resolved, ok := s.tryGeocode(ctx, *input.Address); ok {
			location = resolved
		}
	}

	updated, err := s.repo.Update(ctx, store.ID, func(current models.Store) models.Store {
		if input.Name != nil {
			current.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			current.Description = *input.Description
		}
		if input.Address != nil {
			current.Address = strings.TrimSpace(*input.Address)
		}
		if input.Phone != nil {
			current.Phone = strings.TrimSpace(*input.Phone)
		}
		current.Location = location
		return current
	})
	if err != nil {
		return nil, err
	}
	dto := dtoFromModel(updated)
	return &dto, nil
}

func (s *service) FindByUserID(ctx context.Context, userID string) (models.Store, bool, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// CreateForUser creates the single store a user may own.
func (s *service) CreateForUser(ctx context.Context, userID string, input CreateStoreInput) (models.Store, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.Store{}, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if _, found, err := s.repo.FindByUserID(ctx, userID); err != nil {
		return models.Store{}, err
	} else if found {
		return models.Store{}, pkgerrors.New(pkgerrors.CodeConflict, "user already owns a store")
	}

	var location types.Location
	if input.Lat != nil && input.Lng != nil {
		location = types.Location{Lat: *input.Lat, Lng: *input.Lng}
	} else if resolved, ok := s.tryGeocode(ctx, input.Address); ok {
		location = resolved
	}

	store := models.Store{
		ID:          s.newID(),
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Address:     strings.TrimSpace(input.Address),
		Location:    location,
		Phone:       strings.TrimSpace(input.Phone),
	}
	if err := s.repo.Create(ctx, store); err != nil {
		return models.Store{}, err
	}
	return store, nil
}

// tryGeocode resolves an address best-effort; a failed lookup leaves the
// location unset rather than failing the request.
func (s *service) tryGeocode(ctx context.Context, address string) (types.Location, bool) {
	if s.geocoder == nil || !s.geocoder.Enabled() || strings.TrimSpace(address) == "" {
		return types.Location{}, false
	}
	location, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return types.Location{}, false
	}
	return location, true
}

func dtoFromModel(store models.Store) StoreDTO {
	return StoreDTO{
		ID:          store.ID,
		UserID:      store.UserID,
		Name:        store.Name,
		Description: store.Description,
		Address:     store.Address,
		Location:    store.Location,
		Phone:       store.Phone,
	}
}
