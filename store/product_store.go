package store

import (
	"context"
	"errors"

	"github.com/marcline/storefront/models"
)

// Sentinel errors for the outcomes callers are expected to handle.
// Anything else coming out of a ProductStore is a storage failure.
var (
	ErrNotFound       = errors.New("product not found")
	ErrInvalidID      = errors.New("invalid product id")
	ErrDuplicateID    = errors.New("product id already exists")
	ErrInvalidProduct = errors.New("invalid product")
)

// ProductStore is the data access contract for the catalog. The Mongo
// implementation backs the service; the memory implementation backs
// tests and local development.
type ProductStore interface {
	// List returns every product in insertion order. The slice is
	// empty, never nil, when the catalog is empty.
	List(ctx context.Context) ([]models.Product, error)

	// GetByID returns the product with the given id, ErrInvalidID if
	// the id is malformed, or ErrNotFound if no product matches.
	GetByID(ctx context.Context, id string) (*models.Product, error)

	// Insert adds a new product, assigning an id when none is set.
	// Returns ErrDuplicateID when the id is already taken and
	// ErrInvalidProduct when the record fails validation.
	Insert(ctx context.Context, product *models.Product) error
}
