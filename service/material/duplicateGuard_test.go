package material

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type guardRepoMock struct {
	countBooks func(ctx context.Context, title string, pages int, from, to time.Time) (int64, error)
	countItems func(ctx context.Context, description string, weightKg float64, dimensions string, from, to time.Time) (int64, error)
}

func (m *guardRepoMock) CountBooksMatching(ctx context.Context, title string, pages int, from, to time.Time) (int64, error) {
	return m.countBooks(ctx, title, pages, from, to)
}

func (m *guardRepoMock) CountItemsMatching(ctx context.Context, description string, weightKg float64, dimensions string, from, to time.Time) (int64, error) {
	return m.countItems(ctx, description, weightKg, dimensions, from, to)
}

func TestGuardQueriesSymmetricWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var gotFrom, gotTo time.Time

	g := NewGuard(&guardRepoMock{
		countBooks: func(_ context.Context, _ string, _ int, from, to time.Time) (int64, error) {
			gotFrom, gotTo = from, to
			return 0, nil
		},
	}, 24*time.Hour)

	dup, err := g.IsDuplicateBook(context.Background(), "Rayuela", 600, now)
	require.NoError(t, err)
	require.False(t, dup)
	require.Equal(t, now.Add(-24*time.Hour), gotFrom)
	require.Equal(t, now.Add(24*time.Hour), gotTo)
}

func TestGuardFlagsExistingMatch(t *testing.T) {
	g := NewGuard(&guardRepoMock{
		countBooks: func(context.Context, string, int, time.Time, time.Time) (int64, error) {
			return 1, nil
		},
		countItems: func(context.Context, string, float64, string, time.Time, time.Time) (int64, error) {
			return 2, nil
		},
	}, time.Hour)

	dup, err := g.IsDuplicateBook(context.Background(), "Rayuela", 600, time.Now())
	require.NoError(t, err)
	require.True(t, dup)

	dup, err = g.IsDuplicateItem(context.Background(), "globe", 1.5, "30x30x30 cm", time.Now())
	require.NoError(t, err)
	require.True(t, dup)
}

func TestGuardPropagatesRepoError(t *testing.T) {
	want := errors.New("boom")
	g := NewGuard(&guardRepoMock{
		countBooks: func(context.Context, string, int, time.Time, time.Time) (int64, error) {
			return 0, want
		},
	}, time.Hour)

	_, err := g.IsDuplicateBook(context.Background(), "x", 1, time.Now())
	require.ErrorIs(t, err, want)
}

func TestNewGuardDefaultsWindow(t *testing.T) {
	g := NewGuard(&guardRepoMock{}, 0)
	require.Equal(t, DefaultWindow, g.window)
}
