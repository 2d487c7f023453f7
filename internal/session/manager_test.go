package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SameSessionSameEngine(t *testing.T) {
	m := NewManager(&mockPersist{}, nil)

	a := m.Get(context.Background(), "sess1")
	b := m.Get(context.Background(), "sess1")

	assert.Same(t, a, b)
}

func TestManager_DistinctSessionsIsolated(t *testing.T) {
	m := NewManager(&mockPersist{}, nil)

	a := m.Get(context.Background(), "sess1")
	b := m.Get(context.Background(), "sess2")

	require.NotSame(t, a, b)

	_, err := a.AddToCart(context.Background(), plainProduct("p1", 5, "100"), "", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, a.View().ItemCount)
	assert.Equal(t, 0, b.View().ItemCount)
}

func TestManager_ConcurrentGetHydratesOnce(t *testing.T) {
	ps := &mockPersist{}
	m := NewManager(ps, nil)

	const goroutines = 16
	engines := make([]*Engine, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			engines[i] = m.Get(context.Background(), "sess1")
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, engines[0], engines[i])
	}
}
