package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func fixedMax(n int) MaxFunc {
	return func(context.Context) (int, error) { return n, nil }
}

func TestNextStartsAtOne(t *testing.T) {
	s := New()
	s.Register(KindLoan, "P", fixedMax(0))

	id, err := s.Next(context.Background(), KindLoan)
	require.NoError(t, err)
	require.Equal(t, "P1", id)

	id, err = s.Next(context.Background(), KindLoan)
	require.NoError(t, err)
	require.Equal(t, "P2", id)
}

func TestNextContinuesAfterPersistedMax(t *testing.T) {
	s := New()
	s.Register(KindLoan, "P", fixedMax(50))

	id, err := s.Next(context.Background(), KindLoan)
	require.NoError(t, err)
	require.Equal(t, "P51", id)

	id, err = s.Next(context.Background(), KindLoan)
	require.NoError(t, err)
	require.Equal(t, "P52", id)
}

func TestNextFloorOnlyRaises(t *testing.T) {
	max := 10
	s := New()
	s.Register(KindBook, "LI", func(context.Context) (int, error) { return max, nil })

	id, err := s.Next(context.Background(), KindBook)
	require.NoError(t, err)
	require.Equal(t, "LI11", id)

	// A lookup reporting a lower max must never rewind the counter.
	max = 3
	id, err = s.Next(context.Background(), KindBook)
	require.NoError(t, err)
	require.Equal(t, "LI12", id)
}

func TestNextDegradesWhenLookupFails(t *testing.T) {
	s := New()
	s.Register(KindReader, "L", func(context.Context) (int, error) {
		return 0, errors.New("db down")
	})

	id, err := s.Next(context.Background(), KindReader)
	require.NoError(t, err)
	require.Equal(t, "L1", id)

	id, err = s.Next(context.Background(), KindReader)
	require.NoError(t, err)
	require.Equal(t, "L2", id)
}

func TestNextUnknownKind(t *testing.T) {
	s := New()
	_, err := s.Next(context.Background(), "vehicle")
	require.Error(t, err)
}

func TestNextConcurrentAllocationsAreUnique(t *testing.T) {
	s := New()
	s.Register(KindLoan, "P", fixedMax(0))

	const n = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.Next(context.Background(), KindLoan)
			require.NoError(t, err)
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, n)
}
