package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"warehouse/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	ItemTTL    = 10 * time.Minute
	VariantTTL = 5 * time.Minute
)

// CacheService is a read-through cache for item and variant lookups. Stock
// quantities served from here are advisory; the sale path always reads stock
// under a row lock in Postgres.
type CacheService interface {
	GetItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error)
	SetItem(ctx context.Context, item *models.Item, ttl time.Duration) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error

	GetVariant(ctx context.Context, variantID uuid.UUID) (*models.ItemVariant, error)
	SetVariant(ctx context.Context, variant *models.ItemVariant, ttl time.Duration) error
	DeleteVariant(ctx context.Context, variantID uuid.UUID) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as bare host:port.
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "rediss://"), "redis://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	return &redisCacheService{client: client}
}

func itemKey(itemID uuid.UUID) string {
	return fmt.Sprintf("item:%s", itemID)
}

func variantKey(variantID uuid.UUID) string {
	return fmt.Sprintf("variant:%s", variantID)
}

func (c *redisCacheService) GetItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	data, err := c.client.Get(ctx, itemKey(itemID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item := &models.Item{}
	if err := json.Unmarshal([]byte(data), item); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *redisCacheService) SetItem(ctx context.Context, item *models.Item, ttl time.Duration) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, itemKey(item.ID), data, ttl).Err()
}

func (c *redisCacheService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return c.client.Del(ctx, itemKey(itemID)).Err()
}

func (c *redisCacheService) GetVariant(ctx context.Context, variantID uuid.UUID) (*models.ItemVariant, error) {
	data, err := c.client.Get(ctx, variantKey(variantID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	variant := &models.ItemVariant{}
	if err := json.Unmarshal([]byte(data), variant); err != nil {
		return nil, err
	}
	return variant, nil
}

func (c *redisCacheService) SetVariant(ctx context.Context, variant *models.ItemVariant, ttl time.Duration) error {
	data, err := json.Marshal(variant)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, variantKey(variant.ID), data, ttl).Err()
}

func (c *redisCacheService) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	return c.client.Del(ctx, variantKey(variantID)).Err()
}

func (c *redisCacheService) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
