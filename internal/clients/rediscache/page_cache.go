package rediscache

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
	"github.com/openshelf/catalog-intake-backend/internal/utils"
)

// PageCache caches serialized list pages. Invalidation bumps a generation
// counter instead of scanning keys, so stale pages simply age out of Redis.
type PageCache interface {
	Get(ctx context.Context, page, pageSize int) ([]byte, bool, error)
	Set(ctx context.Context, page, pageSize int, payload []byte) error
	Invalidate(ctx context.Context) error
	Close() error
}

type pageCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewPageCache(log *logger.Logger) (PageCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	serviceLog := log.With("service", "RedisPageCache")

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	prefix := utils.GetEnv("REDIS_PAGE_CACHE_PREFIX", "books", serviceLog)
	ttlSec := utils.GetEnvAsInt("REDIS_PAGE_CACHE_TTL_SECONDS", 600, serviceLog)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &pageCache{
		log:    serviceLog,
		rdb:    rdb,
		prefix: prefix,
		ttl:    time.Duration(ttlSec) * time.Second,
	}, nil
}

func (c *pageCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.prefix+":gen").Int64()
	if err != nil {
		if err == goredis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return gen, nil
}

func (c *pageCache) pageKey(gen int64, page, pageSize int) string {
	return fmt.Sprintf("%s:g%d:p%d:s%d", c.prefix, gen, page, pageSize)
}

func (c *pageCache) Get(ctx context.Context, page, pageSize int) ([]byte, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.rdb.Get(ctx, c.pageKey(gen, page, pageSize)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

func (c *pageCache) Set(ctx context.Context, page, pageSize int, payload []byte) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.pageKey(gen, page, pageSize), payload, c.ttl).Err()
}

func (c *pageCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, c.prefix+":gen").Err()
}

func (c *pageCache) Close() error {
	return c.rdb.Close()
}
