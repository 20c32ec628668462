package utils

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcline/storefront/models"
	"github.com/marcline/storefront/store"
	"github.com/sirupsen/logrus"
)

// FixtureProducts is the starter catalog inserted by SeedProducts. Ids
// are fixed so seeding stays idempotent across restarts.
var FixtureProducts = []models.Product{
	{
		ID:           "airpods-wireless",
		Name:         "Airpods Wireless Bluetooth Headphones",
		Image:        "/images/airpods.jpg",
		Price:        89.99,
		Description:  "Bluetooth technology lets you connect it with compatible devices wirelessly. High-quality AAC audio offers immersive listening experience.",
		Brand:        "Apple",
		Category:     "Electronics",
		CountInStock: 10,
		Rating:       4.5,
		NumReviews:   12,
	},
	{
		ID:           "iphone-13-pro",
		Name:         "iPhone 13 Pro 256GB Memory",
		Image:        "/images/phone.jpg",
		Price:        599.99,
		Description:  "Introducing the iPhone 13 Pro. A transformative triple-camera system that adds tons of capability without complexity.",
		Brand:        "Apple",
		Category:     "Electronics",
		CountInStock: 7,
		Rating:       4.0,
		NumReviews:   8,
	},
	{
		ID:           "canon-eos-80d",
		Name:         "Canon EOS 80D DSLR Camera",
		Image:        "/images/camera.jpg",
		Price:        929.99,
		Description:  "Characterized by versatile imaging specs, the Canon EOS 80D further clarifies itself using a pair of robust focusing systems.",
		Brand:        "Canon",
		Category:     "Electronics",
		CountInStock: 5,
		Rating:       3.0,
		NumReviews:   12,
	},
	{
		ID:           "logitech-g-series",
		Name:         "Logitech G-Series Gaming Mouse",
		Image:        "/images/mouse.jpg",
		Price:        49.99,
		Description:  "Get a better handle on your games with this Logitech LIGHTSYNC gaming mouse. Six programmable buttons allow customization.",
		Brand:        "Logitech",
		Category:     "Electronics",
		CountInStock: 0,
		Rating:       3.5,
		NumReviews:   10,
	},
}

// SeedProducts inserts the fixture catalog, skipping products that are
// already present so repeated startups leave existing data untouched.
func SeedProducts(ctx context.Context, s store.ProductStore, log *logrus.Logger) error {
	seeded := 0
	for i := range FixtureProducts {
		p := FixtureProducts[i]
		err := s.Insert(ctx, &p)
		if errors.Is(err, store.ErrDuplicateID) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
		seeded++
	}
	log.WithField("seeded", seeded).Info("product catalog seeded")
	return nil
}
