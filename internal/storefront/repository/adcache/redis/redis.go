package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/softcart/storefront_control/internal/pkg/apperrors"
	"github.com/softcart/storefront_control/internal/pkg/config"
	"github.com/softcart/storefront_control/internal/pkg/redistools"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
)

// AdCache keeps the public storefront listing warm: one key per family
// plus a combined key. Mutations drop all three.
type AdCache struct {
	rdb     *redis.Client
	expTime time.Duration
}

func New(ctx context.Context, cfg config.RedisCache) (AdCache, error) {
	rdb, err := redistools.Connect(ctx, cfg)
	if err != nil {
		return AdCache{}, fmt.Errorf("connect error: %w", err)
	}

	return AdCache{
		rdb:     rdb,
		expTime: cfg.TTL,
	}, nil
}

func publicKey(family string) string {
	if family == "" {
		return "storefront:ads:all"
	}

	return "storefront:ads:" + family
}

func (ac AdCache) SetPublicAds(ctx context.Context, family string, ads []models.Advertisement) error {
	adsJSON, err := json.Marshal(ads)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if _, err := ac.rdb.Set(ctx, publicKey(family), adsJSON, ac.expTime).Result(); err != nil {
		return fmt.Errorf("set error: %w", err)
	}

	return nil
}

func (ac AdCache) GetPublicAds(ctx context.Context, family string) ([]models.Advertisement, error) {
	adsJSON, err := ac.rdb.Get(ctx, publicKey(family)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get error: %w", err)
	}

	var ads []models.Advertisement
	if err := json.Unmarshal([]byte(adsJSON), &ads); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	return ads, nil
}

func (ac AdCache) Invalidate(ctx context.Context) error {
	keys := []string{
		publicKey(""),
		publicKey(models.FamilyHorizontal),
		publicKey(models.FamilyVertical),
	}

	if _, err := ac.rdb.Del(ctx, keys...).Result(); err != nil {
		return fmt.Errorf("del error: %w", err)
	}

	return nil
}
