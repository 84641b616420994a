package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/pagination"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
)

const expiryDateLayout = "2006-01-02"

// Service exposes the public catalog and owner-side product management.
type Service interface {
	Catalog(ctx context.Context, query CatalogQuery) (*CatalogResult, error)
	GetByID(ctx context.Context, id string) (*CatalogItemDTO, error)
	ListByOwner(ctx context.Context, userID string) ([]ProductDTO, error)
	Create(ctx context.Context, userID string, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, userID, productID string, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, userID, productID string) error
}

type repository interface {
	All(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (models.Product, error)
	ByStore(ctx context.Context, storeID string) ([]models.Product, error)
	Create(ctx context.Context, product models.Product) error
	Update(ctx context.Context, id string, patch func(models.Product) models.Product) (models.Product, error)
	Delete(ctx context.Context, id string) error
}

type storeLoader interface {
	All(ctx context.Context) ([]models.Store, error)
	FindByUserID(ctx context.Context, userID string) (models.Store, bool, error)
}

type idGenerator func() string

type service struct {
	repo   repository
	stores storeLoader
	newID  idGenerator
}

// NewService constructs a product service instance.
func NewService(repo repository, stores storeLoader, newID idGenerator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store loader required")
	}
	if newID == nil {
		return nil, fmt.Errorf("id generator required")
	}
	return &service{repo: repo, stores: stores, newID: newID}, nil
}

// Catalog lists available products matching the query, newest last (file
// order), one offset page at a time.
func (s *service) Catalog(ctx context.Context, query CatalogQuery) (*CatalogResult, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	storeIndex, err := s.storeIndex(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(query.Search))
	matched := make([]CatalogItemDTO, 0, len(all))
	for _, product := range all {
		if product.Status != enums.ProductStatusAvailable {
			continue
		}
		if query.StoreID != "" && product.StoreID != query.StoreID {
			continue
		}
		if product.DiscountPercent() < query.MinDiscount {
			continue
		}
		owner := storeIndex[product.StoreID]
		if search != "" && !matchesSearch(product, owner, search) {
			continue
		}
		matched = append(matched, catalogItem(product, owner))
	}

	start, end := pagination.Slice(pagination.Params{Limit: query.Limit, Offset: query.Offset}, len(matched))
	return &CatalogResult{
		Items: matched[start:end],
		Total: len(matched),
	}, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*CatalogItemDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	storeIndex, err := s.storeIndex(ctx)
	if err != nil {
		return nil, err
	}
	item := catalogItem(product, storeIndex[product.StoreID])
	return &item, nil
}

func (s *service) ListByOwner(ctx context.Context, userID string) ([]ProductDTO, error) {
	store, err := s.ownedStore(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned, err := s.repo.ByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	dtos := make([]ProductDTO, 0, len(owned))
	for _, product := range owned {
		dtos = append(dtos, dtoFromModel(product))
	}
	return dtos, nil
}

func (s *service) Create(ctx context.Context, userID string, input CreateProductInput) (*ProductDTO, error) {
	store, err := s.ownedStore(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	product := models.Product{
		ID:            s.newID(),
		StoreID:       store.ID,
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		OriginalPrice: input.OriginalPrice,
		DiscountPrice: input.DiscountPrice,
		ExpiryDate:    input.ExpiryDate,
		Quantity:      input.Quantity,
		Image:         input.Image,
		Status:        enums.ProductStatusAvailable,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	dto := dtoFromModel(product)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID, productID string, input UpdateProductInput) (*ProductDTO, error) {
	store, err := s.ownedStore(ctx, userID)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if current.StoreID != store.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another store")
	}
	if err := validateUpdate(current, input); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, productID, func(product models.Product) models.Product {
		if input.Name != nil {
			product.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.OriginalPrice != nil {
			product.OriginalPrice = *input.OriginalPrice
		}
		if input.DiscountPrice != nil {
			product.DiscountPrice = *input.DiscountPrice
		}
		if input.ExpiryDate != nil {
			product.ExpiryDate = *input.ExpiryDate
		}
		if input.Quantity != nil {
			product.Quantity = *input.Quantity
		}
		if input.Image != nil {
			product.Image = *input.Image
		}
		return product
	})
	if err != nil {
		return nil, err
	}
	dto := dtoFromModel(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, userID, productID string) error {
	store, err := s.ownedStore(ctx, userID)
	if err != nil {
		return err
	}
	current, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if current.StoreID != store.ID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another store")
	}
	return s.repo.Delete(ctx, productID)
}

func (s *service) ownedStore(ctx context.Context, userID string) (models.Store, error) {
	store, found, err := s.stores.FindByUserID(ctx, userID)
	if err != nil {
		return models.Store{}, err
	}
	if !found {
		return models.Store{}, pkgerrors.New(pkgerrors.CodeNotFound, "store profile not found")
	}
	return store, nil
}

func (s *service) storeIndex(ctx context.Context) (map[string]models.Store, error) {
	all, err := s.stores.All(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]models.Store, len(all))
	for _, store := range all {
		index[store.ID] = store
	}
	return index, nil
}

func validateCreate(input CreateProductInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "is required"
	}
	if input.OriginalPrice <= 0 {
		details["originalPrice"] = "must be positive"
	}
	if input.DiscountPrice < 0 {
		details["discountPrice"] = "must not be negative"
	}
	if input.DiscountPrice > input.OriginalPrice {
		details["discountPrice"] = "must not exceed the original price"
	}
	if input.Quantity < 1 {
		details["quantity"] = "must be at least 1"
	}
	if _, err := time.Parse(expiryDateLayout, input.ExpiryDate); err != nil {
		details["expiryDate"] = "must be a date in YYYY-MM-DD form"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}
	return nil
}

func validateUpdate(current models.Product, input UpdateProductInput) error {
	original := current.OriginalPrice
	if input.OriginalPrice != nil {
		original = *input.OriginalPrice
	}
	discount := current.DiscountPrice
	if input.DiscountPrice != nil {
		discount = *input.DiscountPrice
	}

	details := map[string]string{}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		details["name"] = "cannot be empty"
	}
	if original <= 0 {
		details["originalPrice"] = "must be positive"
	}
	if discount < 0 {
		details["discountPrice"] = "must not be negative"
	}
	if discount > original {
		details["discountPrice"] = "must not exceed the original price"
	}
	if input.Quantity != nil && *input.Quantity < 1 {
		details["quantity"] = "must be at least 1"
	}
	if input.ExpiryDate != nil {
		if _, err := time.Parse(expiryDateLayout, *input.ExpiryDate); err != nil {
			details["expiryDate"] = "must be a date in YYYY-MM-DD form"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}
	return nil
}

func matchesSearch(product models.Product, owner models.Store, search string) bool {
	return strings.Contains(strings.ToLower(product.Name), search) ||
		strings.Contains(strings.ToLower(product.Description), search) ||
		strings.Contains(strings.ToLower(owner.Name), search)
}

func catalogItem(product models.Product, owner models.Store) CatalogItemDTO {
	return CatalogItemDTO{
		ProductDTO:   dtoFromModel(product),
		StoreName:    owner.Name,
		StoreAddress: owner.Address,
	}
}

func dtoFromModel(product models.Product) ProductDTO {
	return ProductDTO{
		ID:              product.ID,
		StoreID:         product.StoreID,
		Name:            product.Name,
		Description:     product.Description,
		OriginalPrice:   product.OriginalPrice,
		DiscountPrice:   product.DiscountPrice,
		DiscountPercent: product.DiscountPercent(),
		ExpiryDate:      product.ExpiryDate,
		Quantity:        product.Quantity,
		Image:           product.Image,
		Status:          product.Status,
	}
}
