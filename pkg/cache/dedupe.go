package cache

import (
	"context"
	"time"
)

// Deduper records processed ids with a TTL using SET NX.
type Deduper struct {
	cache     Cache
	namespace string
	ttl       time.Duration
}

// NewDeduper returns a Deduper storing ids under namespace.
func NewDeduper(c Cache, namespace string, ttl time.Duration) *Deduper {
	return &Deduper{cache: c, namespace: namespace, ttl: ttl}
}

func (d *Deduper) key(id string) string { return d.namespace + ":" + id }

// Claim reports true the first time id is seen within the TTL.
func (d *Deduper) Claim(ctx context.Context, id string) (bool, error) {
	return d.cache.SetNX(ctx, d.key(id), []byte("1"), d.ttl)
}

// Release removes id so the next Claim succeeds.
func (d *Deduper) Release(ctx context.Context, id string) error {
	return d.cache.Delete(ctx, d.key(id))
}
