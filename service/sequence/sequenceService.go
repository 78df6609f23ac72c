package sequence

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// Kinds and their identifier prefixes. Every entity kind allocates out of its
// own namespace.
const (
	KindReader      = "reader"      // L1, L2, ...
	KindLibrarian   = "librarian"   // B1, B2, ...
	KindLoan        = "loan"        // P1, P2, ...
	KindBook        = "book"        // LI1, LI2, ...
	KindSpecialItem = "specialItem" // OB1, OB2, ...
	KindEmployee    = "employee"    // E1, E2, ...
)

// MaxFunc reports the highest persisted number for a kind, so the counter can
// jump over rows inserted by another process.
type MaxFunc func(ctx context.Context) (int, error)

type kindCounter struct {
	prefix string
	maxFn  MaxFunc

	mu   sync.Mutex
	next int
}

// Sequencer hands out collision-free sequential identifiers per entity kind.
// It is explicitly constructed and injected, never a package-level counter,
// so tests run with isolated sequences.
type Sequencer struct {
	kinds map[string]*kindCounter
}

func New() *Sequencer {
	return &Sequencer{kinds: make(map[string]*kindCounter)}
}

func (s *Sequencer) Register(kind, prefix string, maxFn MaxFunc) {
	s.kinds[kind] = &kindCounter{prefix: prefix, maxFn: maxFn}
}

// Next allocates the next identifier for a kind. The persisted-max lookup
// runs outside the lock and only ever raises the floor; if it fails the
// counter degrades to its in-memory value and the storage layer's primary
// key is the backstop against duplicates.
func (s *Sequencer) Next(ctx context.Context, kind string) (string, error) {
	k, ok := s.kinds[kind]
	if !ok {
		return "", fmt.Errorf("unknown identifier kind %q", kind)
	}

	floor := 0
	if n, err := k.maxFn(ctx); err == nil {
		floor = n
	}

	k.mu.Lock()
	if k.next <= floor {
		k.next = floor + 1
	}
	if k.next < 1 {
		k.next = 1
	}
	id := k.prefix + strconv.Itoa(k.next)
	k.next++
	k.mu.Unlock()

	return id, nil
}
