package models

import (
	"github.com/bakhasuleiman/wesavefood-backend/pkg/types"
)

// Store is a seller profile. Exactly one store may exist per owning user.
type Store struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Address     string         `json:"address"`
	Location    types.Location `json:"location"`
	Phone       string         `json:"phone"`
}

// EntityID implements jsonstore.Record.
func (s Store) EntityID() string { return s.ID }
