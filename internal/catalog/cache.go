package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SnapshotStore keeps durable copies of catalog documents.
type SnapshotStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// Cache serves lookups from Redis, then from snapshots, then from the
// upstream catalog, filling the faster tiers on the way back. Either tier may
// be nil. Tier failures count as misses; not-found answers are never cached.
type Cache struct {
	next      Lookuper
	rdb       *redis.Client
	snapshots SnapshotStore
	ttl       time.Duration
	logger    *zap.SugaredLogger
}

func NewCache(next Lookuper, rdb *redis.Client, snapshots SnapshotStore, ttl time.Duration, logger *zap.SugaredLogger) *Cache {
	return &Cache{next: next, rdb: rdb, snapshots: snapshots, ttl: ttl, logger: logger}
}

func redisKey(name string) string    { return "pokemon:" + name }
func snapshotKey(name string) string { return "pokemon/" + name + ".json" }

func (c *Cache) Lookup(ctx context.Context, name string) (json.RawMessage, error) {
	if data, ok := c.fromRedis(ctx, name); ok {
		return data, nil
	}

	if data, ok := c.fromSnapshot(ctx, name); ok {
		c.toRedis(ctx, name, data)
		return data, nil
	}

	data, err := c.next.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	c.toRedis(ctx, name, data)
	if c.snapshots != nil {
		if err := c.snapshots.Upload(ctx, snapshotKey(name), data, "application/json"); err != nil {
			c.logger.Warnw("catalog snapshot upload failed", "name", name, "err", err)
		}
	}
	return data, nil
}

func (c *Cache) fromRedis(ctx context.Context, name string) (json.RawMessage, bool) {
	if c.rdb == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, redisKey(name)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnw("catalog cache read failed", "name", name, "err", err)
		}
		return nil, false
	}
	return json.RawMessage(val), true
}

func (c *Cache) toRedis(ctx context.Context, name string, data json.RawMessage) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, redisKey(name), []byte(data), c.ttl).Err(); err != nil {
		c.logger.Warnw("catalog cache write failed", "name", name, "err", err)
	}
}

func (c *Cache) fromSnapshot(ctx context.Context, name string) (json.RawMessage, bool) {
	if c.snapshots == nil {
		return nil, false
	}
	data, _, err := c.snapshots.Download(ctx, snapshotKey(name))
	if err != nil {
		c.logger.Debugw("catalog snapshot miss", "name", name, "err", err)
		return nil, false
	}
	if !json.Valid(data) {
		c.logger.Warnw("catalog snapshot is not JSON", "name", name)
		return nil, false
	}
	return json.RawMessage(data), true
}
