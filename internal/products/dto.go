package products

import (
	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
)

// ProductDTO is a listing as exposed over the API.
type ProductDTO struct {
	ID              string              `json:"id"`
	StoreID         string              `json:"storeId"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	OriginalPrice   int64               `json:"originalPrice"`
	DiscountPrice   int64               `json:"discountPrice"`
	DiscountPercent int                 `json:"discountPercent"`
	ExpiryDate      string              `json:"expiryDate"`
	Quantity        int                 `json:"quantity"`
	Image           string              `json:"image,omitempty"`
	Status          enums.ProductStatus `json:"status"`
}

// CatalogItemDTO adds the store summary shown on catalog cards.
type CatalogItemDTO struct {
	ProductDTO
	StoreName    string `json:"storeName"`
	StoreAddress string `json:"storeAddress"`
}

// CatalogQuery filters the public catalog.
type CatalogQuery struct {
	Search      string
	MinDiscount int
	StoreID     string
	Limit       int
	Offset      int
}

// CatalogResult is one catalog page.
type CatalogResult struct {
	Items []CatalogItemDTO `json:"items"`
	Total int              `json:"total"`
}

// CreateProductInput holds the validated payload to create a listing.
type CreateProductInput struct {
	Name          string
	Description   string
	OriginalPrice int64
	DiscountPrice int64
	ExpiryDate    string
	Quantity      int
	Image         string
}

// UpdateProductInput holds optional mutation values. Status is absent on
// purpose: it is driven by the reservation lifecycle, not by edits.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	OriginalPrice *int64
	DiscountPrice *int64
	ExpiryDate    *string
	Quantity      *int
	Image         *string
}
