// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dvf

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/dvfmap/internal/platform/metrics"
	redisstore "github.com/taibuivan/dvfmap/internal/platform/redis"
)

// CachedRepository decorates a [Repository] with a short-lived Redis cache.
//
// Any Redis failure is logged and the lookup falls through to the wrapped
// repository; the cache never turns a healthy database into an error.
type CachedRepository struct {
	next     Repository
	client   redis.UniversalClient
	ttl      time.Duration
	observer CacheObserver
	logger   *slog.Logger
}

// NewCachedRepository wraps next. A non-positive ttl disables caching.
func NewCachedRepository(next Repository, client redis.UniversalClient, ttl time.Duration, observer CacheObserver, logger *slog.Logger) *CachedRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRepository{next: next, client: client, ttl: ttl, observer: observer, logger: logger}
}

// cacheKey hashes the query fingerprint to keep keys short and uniform.
func cacheKey(query Query) string {
	sum := sha256.Sum256([]byte(query.Fingerprint()))
	return redisstore.Key(redisstore.NamespaceSalesQuery, hex.EncodeToString(sum[:]))
}

// Search serves from the cache when possible and fills it on a miss.
func (repository *CachedRepository) Search(context context.Context, query Query) ([]Sale, error) {
	if repository.ttl <= 0 || repository.client == nil {
		return repository.next.Search(context, query)
	}

	key := cacheKey(query)

	payload, err := repository.client.Get(context, key).Bytes()
	switch {
	case err == nil:
		var sales []Sale
		if jsonErr := json.Unmarshal(payload, &sales); jsonErr == nil {
			repository.record(metrics.CacheHit)
			return sales, nil
		}
		repository.logger.WarnContext(context, "dvf_cache_entry_corrupt", slog.String("key", key))
		repository.record(metrics.CacheError)
	case errors.Is(err, redis.Nil):
		repository.record(metrics.CacheMiss)
	default:
		repository.logger.WarnContext(context, "dvf_cache_unavailable", slog.Any("error", err))
		repository.record(metrics.CacheError)
	}

	sales, err := repository.next.Search(context, query)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(sales); err == nil {
		if err := repository.client.Set(context, key, encoded, repository.ttl).Err(); err != nil {
			repository.logger.WarnContext(context, "dvf_cache_store_failed", slog.Any("error", err))
		}
	}

	return sales, nil
}

func (repository *CachedRepository) record(result string) {
	if repository.observer != nil {
		repository.observer.CacheLookup(result)
	}
}
