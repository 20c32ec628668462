package models

import (
	"errors"
	"fmt"
	"strings"
)

// MaxIDLength bounds product identifiers; Mongo ObjectID hexes are 24
// characters, so the limit leaves plenty of room for external ids.
const MaxIDLength = 64

// Product is a catalog item. Documents are stored with the id as the
// Mongo _id, so lookups never need a secondary index.
type Product struct {
	ID           string  `bson:"_id" json:"id"`
	Name         string  `bson:"name" json:"name"`
	Image        string  `bson:"image" json:"image"`
	Price        float64 `bson:"price" json:"price"`
	Description  string  `bson:"description" json:"description"`
	Brand        string  `bson:"brand,omitempty" json:"brand,omitempty"`
	Category     string  `bson:"category,omitempty" json:"category,omitempty"`
	CountInStock int     `bson:"countInStock" json:"countInStock"`
	Rating       float64 `bson:"rating" json:"rating"`
	NumReviews   int     `bson:"numReviews" json:"numReviews"`
}

// Validate checks the record against the catalog schema before it
// reaches storage.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name must not be empty")
	}
	if p.Price < 0 {
		return fmt.Errorf("product price must not be negative, got %v", p.Price)
	}
	if p.ID != "" {
		if err := ValidateProductID(p.ID); err != nil {
			return err
		}
	}
	return nil
}

// ValidateProductID reports whether id is a well-formed product
// identifier: non-empty, at most MaxIDLength characters, URL-safe.
func ValidateProductID(id string) error {
	if id == "" {
		return errors.New("product id must not be empty")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("product id exceeds %d characters", MaxIDLength)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return fmt.Errorf("product id contains invalid character %q", r)
		}
	}
	return nil
}
