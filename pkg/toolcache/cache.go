// Package toolcache provides an optional TTL-bounded result cache and
// per-backend concurrency limiter that can be wrapped around a judge.Judge,
// ported from the MCP cacheable-server mixin this library's tournament
// algorithms were originally paired with.
package toolcache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// maxKeyBytes bounds a cache key's raw length before it's collapsed to an
// MD5 digest. MD5 is used purely for key-size bounding, not security.
const maxKeyBytes = 1024

// Cache is a TTL-bounded memoization store keyed by backend name plus an
// arbitrary argument set, with a blocklist of identifiers that must never
// be cached (e.g. backends with side effects where a stale hit would be
// wrong rather than just suboptimal).
type Cache struct {
	entries   *lru.LRU[string, cachedResult]
	blocklist map[string]bool
}

type cachedResult struct {
	scoreA float64
	scoreB float64
	meta   map[string]any
}

// NewCache creates a Cache whose entries expire after ttl and whose capacity is
// bounded by maxEntries. Names in blocklist are never cached, even on a
// successful call.
func NewCache(ttl time.Duration, maxEntries int, blocklist []string) *Cache {
	blocked := make(map[string]bool, len(blocklist))
	for _, name := range blocklist {
		blocked[name] = true
	}
	return &Cache{
		entries:   lru.NewLRU[string, cachedResult](maxEntries, nil, ttl),
		blocklist: blocked,
	}
}

// key builds a cache key from a backend name and an arbitrary argument
// value, following tool_name[:JSON(args, sorted keys)] with an MD5
// fallback once the raw key would exceed maxKeyBytes.
func key(name string, args any) (string, error) {
	raw, err := marshalSorted(args)
	if err != nil {
		return "", fmt.Errorf("toolcache: marshaling cache key args: %w", err)
	}
	k := name
	if len(raw) > 0 {
		k = name + ":" + string(raw)
	}
	if len(k) <= maxKeyBytes {
		return k, nil
	}
	sum := md5.Sum([]byte(k))
	return name + ":" + hex.EncodeToString(sum[:]), nil
}

// marshalSorted JSON-encodes v with map keys in sorted order so that two
// calls with the same logical arguments (but different map iteration
// order) produce the same cache key.
func marshalSorted(v any) ([]byte, error) {
	// encoding/json already sorts map[string]V keys; round-tripping
	// through a generic value normalizes struct field order too.
	intermediate, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(intermediate, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(sortedValue(generic))
}

func sortedValue(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(m))
	for _, k := range keys {
		out[k] = sortedValue(m[k])
	}
	return out
}

// Get returns a cached (scoreA, scoreB, meta) for name/args if present and
// name is not blocklisted.
func (c *Cache) Get(name string, args any) (scoreA, scoreB float64, meta map[string]any, ok bool) {
	if c.blocklist[name] {
		return 0, 0, nil, false
	}
	k, err := key(name, args)
	if err != nil {
		return 0, 0, nil, false
	}
	v, found := c.entries.Get(k)
	if !found {
		return 0, 0, nil, false
	}
	return v.scoreA, v.scoreB, v.meta, true
}

// Put stores a successful result for name/args. It is a no-op for
// blocklisted names, matching the "only non-error results are cached,
// and never for blocklisted tools" rule.
func (c *Cache) Put(name string, args any, scoreA, scoreB float64, meta map[string]any) {
	if c.blocklist[name] {
		return
	}
	k, err := key(name, args)
	if err != nil {
		return
	}
	c.entries.Add(k, cachedResult{scoreA: scoreA, scoreB: scoreB, meta: meta})
}
