package captable

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSAFE_EffectivePrice(t *testing.T) {
	// $1.00 round price over 10,000,000 pre-round fully diluted shares.
	roundPrice := USD(1)
	preFD := Q(10_000_000)

	testCases := []struct {
		name      string
		cap       Money
		discount  float64
		wantPrice float64
	}{
		{
			// $5M cap implies $0.50, the 20% discount implies $0.80:
			// the cap wins.
			name:      "Cap beats discount",
			cap:       USD(5_000_000),
			discount:  20,
			wantPrice: 0.50,
		},
		{
			name:      "Discount only",
			discount:  20,
			wantPrice: 0.80,
		},
		{
			name:      "Cap only",
			cap:       USD(8_000_000),
			wantPrice: 0.80,
		},
		{
			name:      "High cap is not a price increase",
			cap:       USD(20_000_000),
			wantPrice: 1.00,
		},
		{
			name:      "Uncapped undiscounted converts at the round price",
			wantPrice: 1.00,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := &SAFE{ID: "s1", InvestorID: "carol", Principal: USD(500_000),
				Cap: tc.cap, Discount: decimal.NewFromFloat(tc.discount)}
			checkMoney(t, "EffectivePrice()", s.EffectivePrice(roundPrice, preFD), tc.wantPrice)
		})
	}
}

func TestSAFE_ConversionShares(t *testing.T) {
	// $500,000 at an effective $0.50 buys exactly 1,000,000 shares.
	s := &SAFE{ID: "s1", InvestorID: "carol", Principal: USD(500_000),
		Cap: USD(5_000_000), Discount: decimal.NewFromInt(20)}
	got := s.ConversionShares(USD(1), Q(10_000_000))
	checkShares(t, "ConversionShares()", got, 1_000_000)
}

func TestSolvePostMoneyPrice(t *testing.T) {
	t.Run("No SAFEs solves in closed form", func(t *testing.T) {
		// $10M post, $2M new money over 8M shares: price must satisfy
		// p * 8M + $2M = $10M, so p = $1.00, and the seed already is.
		got, err := solvePostMoneyPrice(USD(10_000_000), USD(2_000_000), Q(8_000_000), nil)
		if err != nil {
			t.Fatalf("solvePostMoneyPrice() error = %v", err)
		}
		checkMoney(t, "price", got, 1.00)
	})

	t.Run("Capped SAFE converges", func(t *testing.T) {
		// The cap fixes the SAFE at 2M shares whatever the round price, so
		// the fixed point is p = $10M / (8M + $2M/p + 2M), i.e. p = $0.80.
		s := &SAFE{ID: "s1", InvestorID: "carol", Principal: USD(1_000_000), Cap: USD(4_000_000)}
		got, err := solvePostMoneyPrice(USD(10_000_000), USD(2_000_000), Q(8_000_000), []*SAFE{s})
		if err != nil {
			t.Fatalf("solvePostMoneyPrice() error = %v", err)
		}
		diff := got.Decimal().Sub(decimal.RequireFromString("0.8")).Abs()
		if diff.GreaterThan(priceTolerance) {
			t.Errorf("price = %v, want 0.8 within %v", got.Decimal(), priceTolerance)
		}
	})

	t.Run("Valuation at or below new money is rejected", func(t *testing.T) {
		// A $2M post-money valuation funded by $2M of new money would seed
		// the iteration at a zero price.
		if _, err := solvePostMoneyPrice(USD(2_000_000), USD(2_000_000), Q(8_000_000), nil); err == nil {
			t.Error("solvePostMoneyPrice() = nil error, want a zero-price rejection")
		}
		if _, err := solvePostMoneyPrice(USD(1_000_000), USD(2_000_000), Q(8_000_000), nil); err == nil {
			t.Error("solvePostMoneyPrice() = nil error, want a negative-price rejection")
		}
	})
}

func TestRoundPrice_PreMoney(t *testing.T) {
	ev := NewPricedRound(on("2025-03-01"), "Series A", "Series A",
		USD(8_000_000), PreMoney,
		[]RoundInvestment{{InvestorID: "vc", Amount: USD(2_000_000)}})
	got, err := roundPrice(ev, Q(8_000_000), nil)
	if err != nil {
		t.Fatalf("roundPrice() error = %v", err)
	}
	checkMoney(t, "price", got, 1.00)
}
