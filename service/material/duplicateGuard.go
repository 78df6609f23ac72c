package material

import (
	"context"
	"time"
)

// DefaultWindow is the duplicate-detection window applied on each side of
// "now" when a donation is registered.
const DefaultWindow = 24 * time.Hour

// GuardRepo is the slice of the repository the guard needs.
type GuardRepo interface {
	CountBooksMatching(ctx context.Context, title string, pages int, from, to time.Time) (int64, error)
	CountItemsMatching(ctx context.Context, description string, weightKg float64, dimensions string, from, to time.Time) (int64, error)
}

// DuplicateGuard rejects re-submissions of a donation whose descriptive
// fields match an existing record ingested within [now-window, now+window].
// It is a soft check: the same book can be donated again once the window
// has elapsed.
type DuplicateGuard struct {
	r      GuardRepo
	window time.Duration
}

func NewGuard(r GuardRepo, window time.Duration) *DuplicateGuard {
	if window <= 0 {
		window = DefaultWindow
	}
	return &DuplicateGuard{r: r, window: window}
}

func (g *DuplicateGuard) IsDuplicateBook(ctx context.Context, title string, pages int, now time.Time) (bool, error) {
	n, err := g.r.CountBooksMatching(ctx, title, pages, now.Add(-g.window), now.Add(g.window))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (g *DuplicateGuard) IsDuplicateItem(ctx context.Context, description string, weightKg float64, dimensions string, now time.Time) (bool, error) {
	n, err := g.r.CountItemsMatching(ctx, description, weightKg, dimensions, now.Add(-g.window), now.Add(g.window))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
