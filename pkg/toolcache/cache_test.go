package toolcache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachePutGetRoundTrip(t *testing.T) {
	c := NewCache(time.Minute, 100, nil)
	c.Put("openai", cacheArgs{Query: "q", I: 0, J: 1}, 0.7, 0.3, map[string]any{"raw": 1})

	a, b, meta, ok := c.Get("openai", cacheArgs{Query: "q", I: 0, J: 1})
	require.True(t, ok)
	assert.Equal(t, 0.7, a)
	assert.Equal(t, 0.3, b)
	assert.Equal(t, 1, meta["raw"])
}

func TestCacheMissOnDifferentArgs(t *testing.T) {
	c := NewCache(time.Minute, 100, nil)
	c.Put("openai", cacheArgs{Query: "q", I: 0, J: 1}, 0.7, 0.3, nil)

	_, _, _, ok := c.Get("openai", cacheArgs{Query: "q", I: 0, J: 2})
	assert.False(t, ok)
}

func TestCacheTTLExpiry(t *testing.T) {
	c := NewCache(10*time.Millisecond, 100, nil)
	c.Put("openai", cacheArgs{Query: "q", I: 0, J: 1}, 1, 2, nil)

	time.Sleep(30 * time.Millisecond)
	_, _, _, ok := c.Get("openai", cacheArgs{Query: "q", I: 0, J: 1})
	assert.False(t, ok)
}

func TestCacheBlocklistNeverStores(t *testing.T) {
	c := NewCache(time.Minute, 100, []string{"live-tool"})
	c.Put("live-tool", cacheArgs{Query: "q", I: 0, J: 1}, 1, 2, nil)

	_, _, _, ok := c.Get("live-tool", cacheArgs{Query: "q", I: 0, J: 1})
	assert.False(t, ok)
}

func TestCacheKeyOversizeFallsBackToMD5(t *testing.T) {
	longQuery := strings.Repeat("x", maxKeyBytes*2)
	k, err := key("openai", cacheArgs{Query: longQuery, I: 0, J: 1})
	require.NoError(t, err)
	assert.Less(t, len(k), maxKeyBytes)
	assert.True(t, strings.HasPrefix(k, "openai:"))
}

func TestCacheKeyStableUnderMapOrdering(t *testing.T) {
	a := map[string]any{"z": 1, "a": 2}
	b := map[string]any{"a": 2, "z": 1}
	ka, err := key("backend", a)
	require.NoError(t, err)
	kb, err := key("backend", b)
	require.NoError(t, err)
	assert.Equal(t, ka, kb)
}
