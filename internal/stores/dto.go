package stores

import "github.com/bakhasuleiman/wesavefood-backend/pkg/types"

// StoreDTO is the store profile exposed over the API.
type StoreDTO struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Address     string         `json:"address"`
	Location    types.Location `json:"location"`
	Phone       string         `json:"phone"`
}

// NearbyStoreDTO augments the profile with the distance to the caller.
type NearbyStoreDTO struct {
	StoreDTO
	DistanceMeters float64 `json:"distanceMeters"`
}

// CreateStoreInput is the store profile supplied at registration. When Lat
// and Lng are absent the address is geocoded, if a geocoder is configured.
type CreateStoreInput struct {
	Name        string
	Description string
	Address     string
	Phone       string
	Lat         *float64
	Lng         *float64
}

// UpdateStoreInput holds optional store profile mutations.
type UpdateStoreInput struct {
	Name        *string
	Description *string
	Address     *string
	Phone       *string
	Lat         *float64
	Lng         *float64
}
