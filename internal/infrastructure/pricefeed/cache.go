package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	apppricing "github.com/resale/backoffice/internal/application/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CachedFeed is a read-through Redis cache in front of a price feed.
// Cache failures are treated as misses; a broken Redis never blocks a
// quote, it only costs an extra feed call.
type CachedFeed struct {
	next   apppricing.PriceFeed
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedFeed wraps a price feed with a Redis cache
func NewCachedFeed(next apppricing.PriceFeed, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedFeed {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &CachedFeed{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.Named("pricefeed_cache"),
	}
}

func cacheKey(externalProductID, bucket string) string {
	return fmt.Sprintf("pricefeed:%s:%s", externalProductID, bucket)
}

// LookupPrice serves from cache when possible, falling through to the feed
func (f *CachedFeed) LookupPrice(ctx context.Context, externalProductID, bucket string) *decimal.Decimal {
	if externalProductID == "" || bucket == "" {
		return nil
	}

	key := cacheKey(externalProductID, bucket)
	cached, err := f.client.Get(ctx, key).Result()
	if err == nil {
		price, parseErr := decimal.NewFromString(cached)
		if parseErr == nil {
			return &price
		}
		f.logger.Warn("Discarding unparseable cached price",
			zap.String("key", key),
			zap.String("value", cached),
		)
	} else if !errors.Is(err, redis.Nil) {
		f.logger.Warn("Price cache read failed", zap.String("key", key), zap.Error(err))
	}

	price := f.next.LookupPrice(ctx, externalProductID, bucket)
	if price == nil {
		return nil
	}

	if err := f.client.Set(ctx, key, price.String(), f.ttl).Err(); err != nil {
		f.logger.Warn("Price cache write failed", zap.String("key", key), zap.Error(err))
	}
	return price
}

var _ apppricing.PriceFeed = (*CachedFeed)(nil)
