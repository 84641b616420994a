package models

import (
	"time"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
)

// Reservation is a customer's claim on a product. StoreID is denormalized
// from the product so store-side listings need no extra lookup.
type Reservation struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	ProductID string                  `json:"productId"`
	StoreID   string                  `json:"storeId"`
	CreatedAt time.Time               `json:"createdAt"`
	Status    enums.ReservationStatus `json:"status"`
}

// EntityID implements jsonstore.Record.
func (r Reservation) EntityID() string { return r.ID }
