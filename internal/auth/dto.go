package auth

import "github.com/bakhasuleiman/wesavefood-backend/pkg/enums"

// SessionDTO identifies the authenticated user; the controller turns the
// ID into the session cookie value.
type SessionDTO struct {
	UserID string         `json:"id"`
	Name   string         `json:"name"`
	Role   enums.UserRole `json:"role"`
}

// LoginInput is the email/password login payload.
type LoginInput struct {
	Email    string
	Password string
}

// RegisterCustomerInput is the customer registration form.
type RegisterCustomerInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// RegisterStoreInput is the store registration form: an owner account plus
// the store profile. Location is optional; when absent the address is
// geocoded if a geocoder is configured.
type RegisterStoreInput struct {
	Email       string
	Password    string
	Name        string
	Phone       string
	StoreName   string
	Description string
	Address     string
	StorePhone  string
	Lat         *float64
	Lng         *float64
}
