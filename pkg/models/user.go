package models

import (
	"time"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
)

// User is the canonical identity record. The ID is either the Telegram
// numeric id rendered as a string, or a generated UUID for accounts created
// through the registration forms. Role never changes after creation.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"password"`
	Name         string         `json:"name"`
	Phone        string         `json:"phone"`
	Role         enums.UserRole `json:"role"`
	CreatedAt    time.Time      `json:"createdAt"`
	PhotoURL     string         `json:"photo_url,omitempty"`
}

// EntityID implements jsonstore.Record.
func (u User) EntityID() string { return u.ID }
