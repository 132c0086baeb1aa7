package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/S-Stepanov-1/contacts-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_CeilingEnforced(t *testing.T) {
	m := NewMemory(15, 60*time.Second)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, m.Allow(ctx, "1.2.3.4"), "request %d should be admitted", i+1)
	}
	err := m.Allow(ctx, "1.2.3.4")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTooManyRequests))
}

func TestMemory_KeysAreIndependent(t *testing.T) {
	m := NewMemory(1, 60*time.Second)
	ctx := context.Background()

	require.NoError(t, m.Allow(ctx, "a"))
	require.Error(t, m.Allow(ctx, "a"))
	require.NoError(t, m.Allow(ctx, "b"))
}

func TestMemory_WindowResets(t *testing.T) {
	m := NewMemory(2, 60*time.Second)
	now := time.Now()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Allow(ctx, "a"))
	require.NoError(t, m.Allow(ctx, "a"))
	require.Error(t, m.Allow(ctx, "a"))

	// Advance past the window end: the counter is zeroed, no carry-over.
	now = now.Add(61 * time.Second)
	require.NoError(t, m.Allow(ctx, "a"))
	require.NoError(t, m.Allow(ctx, "a"))
	require.Error(t, m.Allow(ctx, "a"))
}

func TestMemory_ConcurrentAtCeiling(t *testing.T) {
	const limit = 15
	m := NewMemory(limit, 60*time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < limit*3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Allow(ctx, "shared"); err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, limit, admitted)
}
