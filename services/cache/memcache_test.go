package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance and is skipped when
// one is not available.
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	_, err := mc.client.Get("test")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	err = mc.Set("offers_run_block", []byte("1"), 1*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("offers_run_block")
	assert.NoError(t, err)
	assert.Equal(t, "1", string(value))

	err = mc.Delete("offers_run_block")
	assert.NoError(t, err)

	_, err = mc.Get("offers_run_block")
	assert.Error(t, err)
}
