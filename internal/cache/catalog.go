// Package cache provides a Redis-backed read cache for the product
// catalog. The cache is optional: when no Redis address is configured the
// zero-value client degrades to a no-op and every read falls through to
// the database.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/example/pixelcart/internal/models"
)

const (
	productKeyPrefix = "product:"
	featuredKey      = "products:featured"
	defaultTTL       = 5 * time.Minute
)

// Catalog caches product reads.
type Catalog struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr. An empty addr or a failed ping returns a
// no-op cache rather than an error so the store runs without Redis.
func New(addr string) *Catalog {
	if addr == "" {
		return &Catalog{ttl: defaultTTL}
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[Cache] Redis unavailable at %s, running without cache: %v", addr, err)
		return &Catalog{ttl: defaultTTL}
	}

	return &Catalog{client: client, ttl: defaultTTL}
}

// GetProduct returns a cached product, or false on miss.
func (c *Catalog) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, productKeyPrefix+id.String()).Bytes()
	if err != nil {
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal(payload, &product); err != nil {
		return nil, false
	}
	return &product, true
}

// SetProduct caches a product for the configured TTL.
func (c *Catalog) SetProduct(ctx context.Context, product *models.Product) {
	if c == nil || c.client == nil || product == nil {
		return
	}

	payload, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productKeyPrefix+product.ID.String(), payload, c.ttl).Err(); err != nil {
		log.Printf("[Cache] failed to cache product %s: %v", product.ID, err)
	}
}

// GetFeatured returns the cached featured-products list, or false on miss.
func (c *Catalog) GetFeatured(ctx context.Context) ([]models.Product, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, featuredKey).Bytes()
	if err != nil {
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, false
	}
	return products, true
}

// SetFeatured caches the featured-products list.
func (c *Catalog) SetFeatured(ctx context.Context, products []models.Product) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, featuredKey, payload, c.ttl).Err(); err != nil {
		log.Printf("[Cache] failed to cache featured products: %v", err)
	}
}

// InvalidateProduct drops a single product entry plus the featured list,
// called after admin catalog writes.
func (c *Catalog) InvalidateProduct(ctx context.Context, id uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, productKeyPrefix+id.String(), featuredKey)
}
