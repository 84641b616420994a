// Package db owns the four entity collections and their shared lifecycle.
// One Client is constructed per process; Close flushes whatever the cache
// still holds before shutdown.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/config"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/jsonstore"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/metrics"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/storage/ghrepo"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/storage/localfs"
)

// Table names double as backing document names.
const (
	TableUsers        = "users.json"
	TableStores       = "stores.json"
	TableProducts     = "products.json"
	TableReservations = "reservations.json"
)

// Pinger exposes the backend health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

type backend interface {
	jsonstore.Backend
	Pinger
}

// Client bundles the typed collections over one backing store.
type Client struct {
	backend backend

	users        *jsonstore.Collection[models.User]
	stores       *jsonstore.Collection[models.Store]
	products     *jsonstore.Collection[models.Product]
	reservations *jsonstore.Collection[models.Reservation]
}

// New selects the backend from config and wires the collections.
func New(cfg config.GitHubConfig, storeMetrics *metrics.StoreMetrics) (*Client, error) {
	var be backend
	switch cfg.Backend {
	case "github":
		be = ghrepo.New(cfg)
	case "fs":
		fs, err := localfs.New(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		be = fs
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	return NewWithBackend(be, cfg, storeMetrics), nil
}

// NewWithBackend wires the collections over an explicit backend.
func NewWithBackend(be backend, cfg config.GitHubConfig, storeMetrics *metrics.StoreMetrics) *Client {
	opts := jsonstore.Options{
		WriteThrough: cfg.WriteThrough(),
		WriteRetries: cfg.WriteRetries,
		Metrics:      storeMetrics,
	}
	return &Client{
		backend:      be,
		users:        jsonstore.NewCollection[models.User](TableUsers, be, opts),
		stores:       jsonstore.NewCollection[models.Store](TableStores, be, opts),
		products:     jsonstore.NewCollection[models.Product](TableProducts, be, opts),
		reservations: jsonstore.NewCollection[models.Reservation](TableReservations, be, opts),
	}
}

// Users returns the user collection.
func (c *Client) Users() *jsonstore.Collection[models.User] { return c.users }

// Stores returns the store collection.
func (c *Client) Stores() *jsonstore.Collection[models.Store] { return c.stores }

// Products returns the product collection.
func (c *Client) Products() *jsonstore.Collection[models.Product] { return c.products }

// Reservations returns the reservation collection.
func (c *Client) Reservations() *jsonstore.Collection[models.Reservation] { return c.reservations }

// Warm loads every collection eagerly.
func (c *Client) Warm(ctx context.Context) error {
	var errs []error
	errs = append(errs, c.users.Warm(ctx))
	errs = append(errs, c.stores.Warm(ctx))
	errs = append(errs, c.products.Warm(ctx))
	errs = append(errs, c.reservations.Warm(ctx))
	return errors.Join(errs...)
}

// Flush persists every collection holding unflushed writes.
func (c *Client) Flush(ctx context.Context) error {
	var errs []error
	errs = append(errs, c.users.Flush(ctx))
	errs = append(errs, c.stores.Flush(ctx))
	errs = append(errs, c.products.Flush(ctx))
	errs = append(errs, c.reservations.Flush(ctx))
	return errors.Join(errs...)
}

// Close performs the final flush. Call it from the host's shutdown sequence.
func (c *Client) Close(ctx context.Context) error {
	return c.Flush(ctx)
}

// Ping verifies the backing store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.backend.Ping(ctx)
}
