package types

import "testing"

func TestSplitFee(t *testing.T) {
	tests := []struct {
		name    string
		amount  Amount
		percent uint8
		seller  Amount
		fee     Amount
	}{
		{"TwoPercent", 1000, 2, 980, 20},
		{"ZeroPercent", 1000, 0, 1000, 0},
		{"FullFee", 1000, 100, 0, 1000},
		{"FloorsFee", 999, 2, 980, 19},    // 999*2/100 = 19.98 -> 19
		{"SmallPrice", 1, 50, 1, 0},       // 0.5 -> 0
		{"OddSplit", 333, 33, 224, 109},   // 109.89 -> 109
		{"ZeroAmount", 0, 50, 0, 0},
		{"LargeAmount", 1 << 62, 7, 4288867997137470751, 322818021289917153},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seller, fee := tt.amount.SplitFee(tt.percent)
			if seller != tt.seller {
				t.Errorf("seller: got %d, want %d", seller, tt.seller)
			}
			if fee != tt.fee {
				t.Errorf("fee: got %d, want %d", fee, tt.fee)
			}
		})
	}
}

func TestSplitFeeConserves(t *testing.T) {
	amounts := []Amount{0, 1, 2, 99, 100, 101, 999, 1000, 123456789, 1<<63 - 1}
	for _, a := range amounts {
		for pct := uint8(0); pct <= 100; pct++ {
			seller, fee := a.SplitFee(pct)
			if seller+fee != a {
				t.Fatalf("SplitFee(%d, %d): %d + %d != %d", a, pct, seller, fee, a)
			}
		}
	}
}

func TestSplitFeeOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for percent > 100")
		}
	}()
	Amount(100).SplitFee(101)
}

func TestAmountArithmetic(t *testing.T) {
	if got := Tokens(100).Add(Tokens(250)); got != 350 {
		t.Errorf("Add: got %d, want 350", got)
	}
	if got := Tokens(500).Sub(Tokens(200)); got != 300 {
		t.Errorf("Sub: got %d, want 300", got)
	}
	if !Tokens(0).IsZero() || Tokens(1).IsZero() {
		t.Error("IsZero misbehaves")
	}
	if got := Tokens(42).String(); got != "42" {
		t.Errorf("String: got %q, want \"42\"", got)
	}
}

func TestSubUnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on underflow")
		}
	}()
	Tokens(1).Sub(Tokens(2))
}

func TestIdentity(t *testing.T) {
	if !Identity("").IsZero() {
		t.Error("empty identity should be zero")
	}
	if Identity("alice").IsZero() {
		t.Error("non-empty identity should not be zero")
	}
}
