package kv

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetGetDelete(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("k", []byte("v"), 0))
	val, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, s.Delete("k"))
	_, ok, err = s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete("never-set"))
}

func TestTTLExpires(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set("short", []byte("1"), time.Second))
	_, ok, err := s.Get("short")
	require.NoError(t, err)
	require.True(t, ok)

	// badger TTLs have second granularity
	time.Sleep(2100 * time.Millisecond)
	_, ok, err = s.Get("short")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTakeIsSingleUse(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Set("forget-password:abc", []byte("7"), time.Hour))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				val, ok, err := s.Take("forget-password:abc")
				if err != nil {
					// conflicting transactions are retried
					continue
				}
				if ok {
					assert.Equal(t, []byte("7"), val)
					atomic.AddInt32(&wins, 1)
				}
				return
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
	_, ok, err := s.Get("forget-password:abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHealthy(t *testing.T) {
	s, err := Open("", zap.NewNop())
	require.NoError(t, err)
	assert.True(t, s.Healthy())
	require.NoError(t, s.Close())
	assert.False(t, s.Healthy())
}
