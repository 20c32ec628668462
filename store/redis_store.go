package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/marcline/storefront/models"
	"github.com/sirupsen/logrus"
)

const (
	productKeyPrefix = "product:"
	productIDListKey = "product_ids"
	cacheTTL         = 5 * time.Minute
)

// CachedProductStore is a Redis read-through cache in front of another
// ProductStore. Reads are served from Redis when possible; on a miss
// the inner store answers and the cache is repopulated in the
// background. Writes go straight through and invalidate nothing beyond
// their own keys, relying on the TTL for eventual consistency.
type CachedProductStore struct {
	inner  ProductStore
	client *redis.Client
	log    *logrus.Logger
}

func NewCachedProductStore(inner ProductStore, client *redis.Client, log *logrus.Logger) *CachedProductStore {
	return &CachedProductStore{inner: inner, client: client, log: log}
}

func (s *CachedProductStore) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.listFromCache(ctx)
	if err == nil {
		return products, nil
	}
	s.log.WithError(err).Debug("product list cache miss, falling back to store")

	products, err = s.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	go func() {
		bg, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		if err := s.populate(bg, products); err != nil {
			s.log.WithError(err).Warn("failed to repopulate product cache")
		}
	}()

	return products, nil
}

func (s *CachedProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if err := models.ValidateProductID(id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}

	raw, err := s.client.Get(ctx, productKeyPrefix+id).Result()
	if err == nil {
		var p models.Product
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return &p, nil
		}
		s.log.WithField("id", id).Warn("corrupt product entry in cache, re-fetching")
	} else if err != redis.Nil {
		s.log.WithError(err).Debug("product cache unavailable, falling back to store")
	}

	p, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := s.client.Set(ctx, productKeyPrefix+p.ID, data, cacheTTL).Err(); err != nil {
			s.log.WithError(err).Debug("failed to cache product")
		}
	}
	return p, nil
}

func (s *CachedProductStore) Insert(ctx context.Context, product *models.Product) error {
	if err := s.inner.Insert(ctx, product); err != nil {
		return err
	}
	// Drop the id list so the next List rebuilds from the inner store.
	if err := s.client.Del(ctx, productIDListKey).Err(); err != nil {
		s.log.WithError(err).Debug("failed to invalidate product id list")
	}
	return nil
}

// listFromCache reassembles the full catalog from the ordered id list
// and the per-product keys. The list keeps the inner store's insertion
// order; any gap forces a miss so a partially evicted cache never
// produces a short listing.
func (s *CachedProductStore) listFromCache(ctx context.Context) ([]models.Product, error) {
	ids, err := s.client.LRange(ctx, productIDListKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read product id list: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("product id list empty")
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKeyPrefix + id
	}
	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget products: %w", err)
	}

	products := make([]models.Product, 0, len(results))
	for _, res := range results {
		raw, ok := res.(string)
		if !ok {
			return nil, fmt.Errorf("product key evicted, cache incomplete")
		}
		var p models.Product
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("unmarshal cached product: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *CachedProductStore) populate(ctx context.Context, products []models.Product) error {
	pipe := s.client.Pipeline()

	ids := make([]interface{}, 0, len(products))
	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal product %s: %w", p.ID, err)
		}
		pipe.Set(ctx, productKeyPrefix+p.ID, data, cacheTTL)
		ids = append(ids, p.ID)
	}

	pipe.Del(ctx, productIDListKey)
	if len(ids) > 0 {
		pipe.RPush(ctx, productIDListKey, ids...)
		pipe.Expire(ctx, productIDListKey, cacheTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("populate product cache: %w", err)
	}
	return nil
}
