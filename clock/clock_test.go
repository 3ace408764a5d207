package clock

import (
	"testing"

	"github.com/cipherbay/market/types"
)

func TestLogicalAdvance(t *testing.T) {
	c := NewLogical(10)
	if got := c.Now(); got != 10 {
		t.Fatalf("start: got %d, want 10", got)
	}
	if got := c.Advance(5); got != 15 {
		t.Fatalf("advance: got %d, want 15", got)
	}
	if got := c.Now(); got != 15 {
		t.Fatalf("now after advance: got %d, want 15", got)
	}
}

func TestLogicalSetIsMonotonic(t *testing.T) {
	c := NewLogical(100)
	c.Set(50) // ignored
	if got := c.Now(); got != 100 {
		t.Errorf("clock moved backwards: got %d, want 100", got)
	}
	c.Set(200)
	if got := c.Now(); got != 200 {
		t.Errorf("forward set ignored: got %d, want 200", got)
	}
}

func TestFunc(t *testing.T) {
	var c Clock = Func(func() types.Height { return 7 })
	if got := c.Now(); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}
