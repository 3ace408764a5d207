// Package clock supplies the logical timestamps Market records. A logical
// clock stands in for wall time: typically a block height, but any
// monotonically non-decreasing counter works.
package clock

import (
	"sync"

	"github.com/cipherbay/market/types"
)

// Clock yields the current logical time.
type Clock interface {
	Now() types.Height
}

// Func adapts a plain function to the Clock interface.
type Func func() types.Height

// Now implements Clock.
func (f Func) Now() types.Height { return f() }

// Logical is a host-driven logical clock. The host advances it (e.g. once
// per block); reads never mutate it. It refuses to move backwards.
type Logical struct {
	mu     sync.Mutex
	height types.Height
}

// NewLogical creates a Logical clock at the given starting height.
func NewLogical(start types.Height) *Logical {
	return &Logical{height: start}
}

// Now returns the current height.
func (l *Logical) Now() types.Height {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height
}

// Advance moves the clock forward by n and returns the new height.
func (l *Logical) Advance(n uint64) types.Height {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.height += types.Height(n)
	return l.height
}

// Set moves the clock to h. Attempts to move backwards are ignored,
// preserving monotonicity.
func (l *Logical) Set(h types.Height) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if h > l.height {
		l.height = h
	}
}
