package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"imospy/domain/model"
	"imospy/domain/repository"
	"imospy/infrastructure/logger"
)

const adDetailPrefix = "ads:detail:"

// AdDetailCache keeps ad details in Redis as JSON. Errors are logged and
// treated as misses; with a nil client it never hits.
type AdDetailCache struct {
	client redis.UniversalClient
}

func NewAdDetailCache(client redis.UniversalClient) repository.IAdDetailCache {
	return &AdDetailCache{client: client}
}

func (c *AdDetailCache) Get(ctx context.Context, adID string) (*model.AdDetails, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, adDetailPrefix+adID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.GetLogger().WithField("error", err).WithField("ad_id", adID).Warn("ad detail cache read failed")
		}
		return nil, false
	}
	var details model.AdDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		logger.GetLogger().WithField("error", err).WithField("ad_id", adID).Warn("ad detail cache entry is corrupt")
		return nil, false
	}
	return &details, true
}

func (c *AdDetailCache) Set(ctx context.Context, adID string, details *model.AdDetails, ttl time.Duration) {
	if c.client == nil || details == nil {
		return
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, adDetailPrefix+adID, raw, ttl).Err(); err != nil {
		logger.GetLogger().WithField("error", err).WithField("ad_id", adID).Warn("ad detail cache write failed")
	}
}
