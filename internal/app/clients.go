package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/openshelf/catalog-intake-backend/internal/clients/docagent"
	"github.com/openshelf/catalog-intake-backend/internal/clients/objectstore"
	"github.com/openshelf/catalog-intake-backend/internal/clients/rediscache"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

type Clients struct {
	Agent     docagent.Client
	Bucket    objectstore.BucketService
	PageCache rediscache.PageCache
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	agent, err := docagent.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init docagent client: %w", err)
	}

	bucket, err := objectstore.NewBucketService(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}

	// Redis is optional: without it the book list simply skips the cache.
	var cache rediscache.PageCache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		c, err := rediscache.NewPageCache(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis page cache: %w", err)
		}
		cache = c
	} else {
		log.Warn("REDIS_ADDR not set, book page caching disabled")
	}

	return Clients{
		Agent:     agent,
		Bucket:    bucket,
		PageCache: cache,
	}, nil
}
