// Package cache provides an external read-through cache for the Query
// Surface's HTTP boundary only (§9). Nothing in query.Surface or
// ledger.Engine imports this package: staleness here is acceptable because
// these wrappers are never consulted by a store transaction, only by the
// handlers that serve getAssetType/getBalance over HTTP.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vaultcoin/ledgercore/internal/application/dtos"
)

// AssetTypeUseCase is the interface QueryCache wraps for asset-type lookups.
type AssetTypeUseCase interface {
	GetAssetType(ctx context.Context, identifier string) (dtos.AssetTypeDTO, error)
}

// BalanceUseCase is the interface QueryCache wraps for balance lookups.
type BalanceUseCase interface {
	GetBalance(ctx context.Context, query dtos.GetBalanceQuery) (dtos.BalanceDTO, error)
}

// QueryCache wraps a Query Surface use case with a Redis read-through
// cache. Asset types rarely change and get a long TTL; balances change on
// every ledger operation and get a short one, so a read can lag a write
// by at most that window.
type QueryCache struct {
	client       *redis.Client
	assetTypes   AssetTypeUseCase
	balances     BalanceUseCase
	assetTypeTTL time.Duration
	balanceTTL   time.Duration
}

// NewQueryCache wraps the asset-type and balance use cases with caching.
func NewQueryCache(client *redis.Client, assetTypes AssetTypeUseCase, balances BalanceUseCase, assetTypeTTL, balanceTTL time.Duration) *QueryCache {
	return &QueryCache{
		client:       client,
		assetTypes:   assetTypes,
		balances:     balances,
		assetTypeTTL: assetTypeTTL,
		balanceTTL:   balanceTTL,
	}
}

// GetAssetType serves from cache when present, otherwise delegates and
// populates the cache for next time.
func (c *QueryCache) GetAssetType(ctx context.Context, identifier string) (dtos.AssetTypeDTO, error) {
	key := "asset_type:" + identifier

	var cached dtos.AssetTypeDTO
	if ok := c.getJSON(ctx, key, &cached); ok {
		return cached, nil
	}

	result, err := c.assetTypes.GetAssetType(ctx, identifier)
	if err != nil {
		return dtos.AssetTypeDTO{}, err
	}

	c.setJSON(ctx, key, result, c.assetTypeTTL)
	return result, nil
}

// GetBalance serves from cache when present, otherwise delegates and
// populates the cache for next time.
func (c *QueryCache) GetBalance(ctx context.Context, query dtos.GetBalanceQuery) (dtos.BalanceDTO, error) {
	key := fmt.Sprintf("balance:%s:%s", query.UserID, query.AssetType)

	var cached dtos.BalanceDTO
	if ok := c.getJSON(ctx, key, &cached); ok {
		return cached, nil
	}

	result, err := c.balances.GetBalance(ctx, query)
	if err != nil {
		return dtos.BalanceDTO{}, err
	}

	c.setJSON(ctx, key, result, c.balanceTTL)
	return result, nil
}

// Invalidate evicts a balance entry, used after a ledger operation so the
// next read doesn't serve a stale pre-operation snapshot for the
// remainder of the TTL window.
func (c *QueryCache) Invalidate(ctx context.Context, userID, assetType string) {
	key := fmt.Sprintf("balance:%s:%s", userID, assetType)
	c.client.Del(ctx, key)
}

func (c *QueryCache) getJSON(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// A degraded cache should never block a read; fall through to
			// the use case as if it were a miss.
		}
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *QueryCache) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, raw, ttl)
}
