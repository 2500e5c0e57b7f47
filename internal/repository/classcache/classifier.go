// Package classcache caches successful classifier answers in the key-value store.
package classcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/localmaps/internal/db"
	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/domain/classification"
	"github.com/kailas-cloud/localmaps/internal/domain/place"
	"github.com/kailas-cloud/localmaps/internal/logger"
)

var cacheKeyPrefix = domain.KeyPrefix + "cls_cache:"

// store is the consumer interface for the classification cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// classifier is the decorated classifier.
type classifier interface {
	Classify(ctx context.Context, query string, candidates []place.Candidate) (classification.Result, error)
}

// CachedClassifier serves repeated (query, candidate list) pairs from the store.
// Unavailable outcomes are never cached.
type CachedClassifier struct {
	inner      classifier
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(inner classifier, s store, ttl time.Duration, cacheTotal *prometheus.CounterVec) *CachedClassifier {
	return &CachedClassifier{inner: inner, store: s, ttl: ttl, cacheTotal: cacheTotal}
}

// Classify returns a cached answer or calls the inner classifier.
func (c *CachedClassifier) Classify(
	ctx context.Context, query string, candidates []place.Candidate,
) (classification.Result, error) {
	key := cacheKey(query, candidates)

	if res, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return res, nil
	}
	c.incCache("miss")

	res, err := c.inner.Classify(ctx, query, candidates)
	if err != nil {
		return classification.Result{}, fmt.Errorf("classify: %w", err)
	}

	c.putToCache(ctx, key, res)
	return res, nil
}

func (c *CachedClassifier) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the query with the ordered external ids. Local indices are
// positions in that order, so the cached indices stay valid for the same key.
func cacheKey(query string, candidates []place.Candidate) string {
	h := sha256.New()
	h.Write([]byte(query))
	for _, cand := range candidates {
		h.Write([]byte{0})
		h.Write([]byte(cand.ExternalID()))
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedClassifier) getFromCache(ctx context.Context, key string) (classification.Result, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			logger.FromContext(ctx).Warn("Failed to get cached classification", zap.String("key", key), zap.Error(err))
		}
		return classification.Result{}, false
	}

	var indices []int
	if err := json.Unmarshal(data, &indices); err != nil {
		logger.FromContext(ctx).Warn("Failed to parse cached classification", zap.String("key", key), zap.Error(err))
		return classification.Result{}, false
	}
	return classification.NewResult(indices...), true
}

func (c *CachedClassifier) putToCache(ctx context.Context, key string, res classification.Result) {
	data, err := json.Marshal(res.Indices())
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		logger.FromContext(ctx).Warn("Failed to cache classification", zap.String("key", key), zap.Error(err))
	}
}
