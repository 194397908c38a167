package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokensim/internal/authority"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry(DefaultOptions(), zap.NewNop())

	a, err := r.Create()
	require.NoError(t, err)
	b, err := r.Create()
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())

	got, err := r.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	// сессии независимы: отзыв в одной не виден в другой
	_, err = a.Revoke(authority.Mint)
	require.NoError(t, err)
	assert.True(t, b.Flags().Mintable())

	list := r.List()
	require.Len(t, list, 2)
	assert.Same(t, a, list[0])

	assert.True(t, r.Remove(a.ID()))
	assert.False(t, r.Remove(a.ID()))
	_, err = r.Get(a.ID())
	assert.ErrorIs(t, err, ErrSessionUnknown)
	_, err = r.Get(uuid.New())
	assert.ErrorIs(t, err, ErrSessionUnknown)
}

func TestRegistry_CleanupStale(t *testing.T) {
	r := NewRegistry(DefaultOptions(), nil)
	_, err := r.Create()
	require.NoError(t, err)

	assert.Equal(t, 0, r.CleanupStale(time.Hour))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, r.CleanupStale(time.Millisecond))

	sessions, _, _ := r.GetStats()
	assert.Zero(t, sessions)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry(DefaultOptions(), zap.NewNop())

	var wg sync.WaitGroup
	numGoroutines := 10
	perGoroutine := 20

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				s, err := r.Create()
				if !assert.NoError(t, err) {
					return
				}
				_, _ = s.Configure(rawToken())
				_, _ = r.Get(s.ID())
				_ = r.List()
			}
		}()
	}
	wg.Wait()

	sessions, reads, writes := r.GetStats()
	t.Logf("Sessions: %d, Reads: %d, Writes: %d", sessions, reads, writes)
	assert.Equal(t, uint64(numGoroutines*perGoroutine), sessions)
	assert.Equal(t, uint64(numGoroutines*perGoroutine*2), reads)
	assert.Equal(t, uint64(numGoroutines*perGoroutine), writes)
}
