package captable

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Share is one recipient's slice of a Distribute result.
type Share struct {
	ID     string
	Shares Quantity
}

// Distribute splits a whole number of shares among recipients in proportion
// to their weights, using the largest-remainder method: every exact share is
// floored, then the leftover units go one each to the recipients with the
// largest fractional remainders. The returned share counts always sum to
// total exactly.
//
// Proportions need not sum to 1; each recipient receives
// total * proportion / sum(proportions). Ties on equal remainders are broken
// by input order.
func Distribute(total Quantity, recipients []Share) ([]Share, error) {
	if total.IsNegative() {
		return nil, fmt.Errorf("cannot distribute a negative total %s", total)
	}
	if !total.IsWhole() {
		return nil, fmt.Errorf("cannot distribute a fractional total %s", total)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients to distribute %s shares to", total)
	}

	sum := decimal.Zero
	for _, r := range recipients {
		if r.Shares.IsNegative() {
			return nil, fmt.Errorf("recipient %s has a negative proportion %s", r.ID, r.Shares)
		}
		sum = sum.Add(r.Shares.Decimal())
	}
	if sum.IsZero() {
		if total.IsZero() {
			out := make([]Share, len(recipients))
			for i, r := range recipients {
				out[i] = Share{ID: r.ID, Shares: Q(0)}
			}
			return out, nil
		}
		return nil, fmt.Errorf("cannot distribute %s shares, all proportions are zero", total)
	}

	type cut struct {
		index int
		frac  Quantity
	}
	out := make([]Share, len(recipients))
	cuts := make([]cut, len(recipients))
	allocated := Q(0)
	for i, r := range recipients {
		exact := Quantity{value: total.Decimal().Mul(r.Shares.Decimal()).Div(sum)}
		base := exact.Floor()
		out[i] = Share{ID: r.ID, Shares: base}
		cuts[i] = cut{index: i, frac: exact.Frac()}
		allocated = allocated.Add(base)
	}

	// Award the shortfall one unit at a time, largest remainder first.
	// The sort is stable so equal remainders keep input order.
	sort.SliceStable(cuts, func(i, j int) bool {
		return cuts[i].frac.GreaterThan(cuts[j].frac)
	})
	shortfall := total.Sub(allocated)
	one := Q(1)
	for _, c := range cuts {
		if !shortfall.IsPositive() {
			break
		}
		out[c.index].Shares = out[c.index].Shares.Add(one)
		shortfall = shortfall.Sub(one)
	}
	return out, nil
}
