package reservations

import (
	"time"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
)

// ProductSummaryDTO is the product card embedded in reservation listings.
type ProductSummaryDTO struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	OriginalPrice int64               `json:"originalPrice"`
	DiscountPrice int64               `json:"discountPrice"`
	ExpiryDate    string              `json:"expiryDate"`
	Image         string              `json:"image,omitempty"`
	Status        enums.ProductStatus `json:"status"`
}

// ReservationDTO is a reservation as exposed over the API.
type ReservationDTO struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	ProductID string                  `json:"productId"`
	StoreID   string                  `json:"storeId"`
	CreatedAt time.Time               `json:"createdAt"`
	Status    enums.ReservationStatus `json:"status"`
	Product   *ProductSummaryDTO      `json:"product,omitempty"`
}

// RepairReport summarizes one reconciliation pass over products and
// reservations.
type RepairReport struct {
	ProductsReleased int
	ProductsReserved int
}

func dtoFromModel(res models.Reservation) ReservationDTO {
	return ReservationDTO{
		ID:        res.ID,
		UserID:    res.UserID,
		ProductID: res.ProductID,
		StoreID:   res.StoreID,
		CreatedAt: res.CreatedAt,
		Status:    res.Status,
	}
}

func productSummary(product models.Product) *ProductSummaryDTO {
	return &ProductSummaryDTO{
		ID:            product.ID,
		Name:          product.Name,
		OriginalPrice: product.OriginalPrice,
		DiscountPrice: product.DiscountPrice,
		ExpiryDate:    product.ExpiryDate,
		Image:         product.Image,
		Status:        product.Status,
	}
}
