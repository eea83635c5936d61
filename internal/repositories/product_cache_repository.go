package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tokoshop/internal/models"
	"tokoshop/pkg/cache"

	"github.com/rs/zerolog/log"
)

// CacheAsideProductRepository serves GetByID from the cache and falls back to
// the wrapped repository. Writes go to the repository first and then evict.
// Cache failures are logged and never fail the call.
type CacheAsideProductRepository struct {
	ProductRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewCacheAsideProductRepository wraps repo with a cache-aside layer.
func NewCacheAsideProductRepository(repo ProductRepository, c cache.Cache, ttl time.Duration) *CacheAsideProductRepository {
	return &CacheAsideProductRepository{ProductRepository: repo, cache: c, ttl: ttl}
}

func productKey(id string) string { return "product:" + id }

func (r *CacheAsideProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	raw, err := r.cache.Get(ctx, productKey(id))
	if err == nil {
		var product models.Product
		if err := json.Unmarshal(raw, &product); err == nil {
			return &product, nil
		}
		log.Warn().Str("product_id", id).Msg("discarding undecodable cached product")
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Warn().Err(err).Str("product_id", id).Msg("product cache read failed")
	}

	product, err := r.ProductRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(product); err == nil {
		if err := r.cache.Set(ctx, productKey(id), raw, r.ttl); err != nil {
			log.Warn().Err(err).Str("product_id", id).Msg("product cache write failed")
		}
	}
	return product, nil
}

func (r *CacheAsideProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.ProductRepository.Update(ctx, product); err != nil {
		return err
	}
	r.evict(ctx, product.ID)
	return nil
}

func (r *CacheAsideProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.ProductRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

// Evict drops the cached copy of a product. Image changes call this since
// images are embedded in the cached product.
func (r *CacheAsideProductRepository) Evict(ctx context.Context, id string) {
	r.evict(ctx, id)
}

func (r *CacheAsideProductRepository) evict(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, productKey(id)); err != nil {
		log.Warn().Err(err).Str("product_id", id).Msg("product cache eviction failed")
	}
}
