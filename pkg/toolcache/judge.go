package toolcache

import (
	"context"
	"sync/atomic"

	"github.com/eigen-ai-labs/qqr/pkg/judge"
	"github.com/eigen-ai-labs/qqr/pkg/metrics"
	"github.com/eigen-ai-labs/qqr/pkg/sample"
	"golang.org/x/sync/semaphore"
)

// cacheArgs is the cache key payload for one judge call: the pair being
// compared and the shared query, matching SPEC_FULL's "keyed on
// (pairKey, query)" rule. Message content is deliberately excluded from
// the key — within a single tournament run the same PairKey always
// addresses the same two candidates.
type cacheArgs struct {
	Query string `json:"query"`
	I     int    `json:"i"`
	J     int    `json:"j"`
}

// CachedJudge decorates a Judge with a TTL cache and a per-backend
// concurrency limiter. It is not imposed by any tournament driver; a
// caller wires it in only when it wants repeated compares for the same
// pair (e.g. retried rounds, overlapping tournaments on the same group)
// to reuse a result instead of re-invoking the backend.
type CachedJudge struct {
	inner   judge.Judge
	backend string
	cache   *Cache
	limiter *semaphore.Weighted
	metrics *metrics.Metrics
}

// Option configures a CachedJudge.
type Option func(*CachedJudge)

// WithCache attaches a result cache. Without one, CachedJudge only
// enforces the concurrency limit.
func WithCache(c *Cache) Option {
	return func(cj *CachedJudge) { cj.cache = c }
}

// WithMetrics attaches a Metrics counter updated with a hit/miss on every
// cache lookup.
func WithMetrics(m *metrics.Metrics) Option {
	return func(cj *CachedJudge) { cj.metrics = m }
}

func (c *CachedJudge) recordLookup(hit bool) {
	if c.metrics == nil {
		return
	}
	if hit {
		atomic.AddInt64(&c.metrics.CacheHits, 1)
	} else {
		atomic.AddInt64(&c.metrics.CacheMisses, 1)
	}
}

// New wraps inner with a cache and a concurrency limiter for backend,
// admitting at most maxConcurrency simultaneous calls. The semaphore is
// created eagerly, not lazily: Go has no per-event-loop affinity that
// would make lazy construction necessary. maxConcurrency <= 0 means
// unbounded.
func New(inner judge.Judge, backend string, maxConcurrency int64, opts ...Option) *CachedJudge {
	var limiter *semaphore.Weighted
	if maxConcurrency > 0 {
		limiter = semaphore.NewWeighted(maxConcurrency)
	}
	cj := &CachedJudge{inner: inner, backend: backend, limiter: limiter}
	for _, opt := range opts {
		opt(cj)
	}
	return cj
}

func (c *CachedJudge) acquire(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Acquire(ctx, 1)
}

func (c *CachedJudge) release() {
	if c.limiter != nil {
		c.limiter.Release(1)
	}
}

// Compare implements judge.Judge.
func (c *CachedJudge) Compare(ctx context.Context, messagesA, messagesB []sample.Message, query string, pair judge.PairKey) (float64, float64, error) {
	args := cacheArgs{Query: query, I: pair.I, J: pair.J}
	if c.cache != nil {
		if a, b, _, ok := c.cache.Get(c.backend, args); ok {
			c.recordLookup(true)
			return a, b, nil
		}
		c.recordLookup(false)
	}

	if err := c.acquire(ctx); err != nil {
		return 0, 0, err
	}
	defer c.release()

	a, b, err := c.inner.Compare(ctx, messagesA, messagesB, query, pair)
	if err != nil {
		return 0, 0, err
	}
	if c.cache != nil {
		c.cache.Put(c.backend, args, a, b, nil)
	}
	return a, b, nil
}

// BidirectionalCompare implements judge.Judge.
func (c *CachedJudge) BidirectionalCompare(ctx context.Context, messagesA, messagesB []sample.Message, query string, pair judge.PairKey) (float64, float64, map[string]any, error) {
	args := cacheArgs{Query: query, I: pair.I, J: pair.J}
	if c.cache != nil {
		if a, b, meta, ok := c.cache.Get(c.backend, args); ok {
			c.recordLookup(true)
			return a, b, meta, nil
		}
		c.recordLookup(false)
	}

	if err := c.acquire(ctx); err != nil {
		return 0, 0, nil, err
	}
	defer c.release()

	a, b, meta, err := c.inner.BidirectionalCompare(ctx, messagesA, messagesB, query, pair)
	if err != nil {
		return 0, 0, nil, err
	}
	if c.cache != nil {
		c.cache.Put(c.backend, args, a, b, meta)
	}
	return a, b, meta, nil
}
