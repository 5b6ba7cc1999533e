package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/quorumdesk/quorumdesk-backend/internal/config"
	"github.com/quorumdesk/quorumdesk-backend/internal/logger"
)

// TallyCache stores serialized poll tallies so repeated reads during an
// open poll skip the vote aggregation query. Payloads are opaque bytes;
// the poll service owns the schema.
type TallyCache interface {
	Get(ctx context.Context, pollID uuid.UUID) ([]byte, error)
	Set(ctx context.Context, pollID uuid.UUID, payload []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, pollID uuid.UUID) error
	Close() error
}

type tallyCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewTallyCache(cfg config.RedisConfig, log *logger.Logger) (TallyCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &tallyCache{
		log: log.With("service", "RedisTallyCache"),
		rdb: rdb,
	}, nil
}

func tallyKey(pollID uuid.UUID) string {
	return "tally:" + pollID.String()
}

func (c *tallyCache) Get(ctx context.Context, pollID uuid.UUID) ([]byte, error) {
	raw, err := c.rdb.Get(ctx, tallyKey(pollID)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *tallyCache) Set(ctx context.Context, pollID uuid.UUID, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, tallyKey(pollID), payload, ttl).Err()
}

func (c *tallyCache) Invalidate(ctx context.Context, pollID uuid.UUID) error {
	return c.rdb.Del(ctx, tallyKey(pollID)).Err()
}

func (c *tallyCache) Close() error {
	return c.rdb.Close()
}
