package models

import (
	"math"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
)

// Product is a near-expiry listing owned by a store. Prices are whole
// currency units; DiscountPrice never exceeds OriginalPrice.
type Product struct {
	ID            string              `json:"id"`
	StoreID       string              `json:"storeId"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	OriginalPrice int64               `json:"originalPrice"`
	DiscountPrice int64               `json:"discountPrice"`
	ExpiryDate    string              `json:"expiryDate"`
	Quantity      int                 `json:"quantity"`
	Image         string              `json:"image,omitempty"`
	Status        enums.ProductStatus `json:"status"`
}

// EntityID implements jsonstore.Record.
func (p Product) EntityID() string { return p.ID }

// DiscountPercent is the rounded saving relative to the original price.
// A non-positive original price yields 0 rather than dividing by zero.
func (p Product) DiscountPercent() int {
	return DiscountPercent(p.OriginalPrice, p.DiscountPrice)
}

// DiscountPercent computes round((original-discount)/original*100).
func DiscountPercent(original, discount int64) int {
	if original <= 0 {
		return 0
	}
	return int(math.Round(float64(original-discount) / float64(original) * 100))
}
