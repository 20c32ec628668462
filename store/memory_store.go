package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/marcline/storefront/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryProductStore is an in-memory ProductStore. It preserves
// insertion order so listings are deterministic.
type MemoryProductStore struct {
	mu       sync.RWMutex
	products map[string]models.Product
	order    []string
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{
		products: make(map[string]models.Product),
	}
}

func (s *MemoryProductStore) List(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.products[id])
	}
	return out, nil
}

func (s *MemoryProductStore) GetByID(_ context.Context, id string) (*models.Product, error) {
	if err := models.ValidateProductID(id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryProductStore) Insert(_ context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		product.ID = bson.NewObjectID().Hex()
	}
	if _, exists := s.products[product.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, product.ID)
	}
	s.products[product.ID] = *product
	s.order = append(s.order, product.ID)
	return nil
}
