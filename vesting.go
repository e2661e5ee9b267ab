package captable

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// VestedShares computes how many of total option shares have vested as of a
// date, under a cliff + linear schedule:
//
//   - strictly before the cliff nothing is vested;
//   - at the cliff, floor(total * cliffPercent/100) vests at once;
//   - the rest vests linearly over the remaining months, stepping at the
//     schedule's frequency, floored to whole shares;
//   - at or after the total length everything is vested.
//
// A nil schedule means the holding is already-vested stock: the full total.
func VestedShares(total Quantity, sched *VestingSchedule, start, asOf Date) Quantity {
	if sched == nil {
		return total
	}
	elapsed := asOf.MonthsSince(start)
	if elapsed < sched.CliffMonths {
		return Q(0)
	}
	if elapsed >= sched.TotalMonths {
		return total
	}

	cliffVested := Quantity{value: total.Decimal().Mul(sched.CliffPercent).Div(hundred)}.Floor()
	if cliffVested.GreaterThan(total) {
		cliffVested = total
	}
	remaining := total.Sub(cliffVested)

	linearMonths := sched.TotalMonths - sched.CliffMonths
	if linearMonths == 0 {
		// Everything beyond the cliff percent vests at the very end,
		// which the elapsed >= TotalMonths case above already covers.
		return cliffVested
	}

	freq := sched.FrequencyMonths
	if freq <= 0 {
		freq = 1
	}
	// Vesting happens in whole steps of freq months after the cliff.
	steps := ((elapsed - sched.CliffMonths) / freq) * freq

	vested := Quantity{value: remaining.Decimal().
		Mul(decimal.NewFromInt(int64(steps))).
		Div(decimal.NewFromInt(int64(linearMonths)))}.Floor()
	if vested.GreaterThan(remaining) {
		vested = remaining
	}
	return cliffVested.Add(vested)
}

// VestedSplit returns the vested and unvested parts of a holding's current
// balance as of a date. The schedule applies to the original grant total;
// already-exercised shares count against the vested side, so a partial
// exercise never re-vests the remainder. Non-option holdings are fully
// vested by definition.
func (c *Company) VestedSplit(h *Holding, asOf Date) (vested, unvested Quantity) {
	if !h.IsOption || h.Holder.IsPool() {
		return h.Quantity, Q(0)
	}
	var sched *VestingSchedule
	if h.Schedule != "" {
		sched = c.Schedule(h.Schedule)
	}
	vested = VestedShares(h.GrantTotal(), sched, h.VestingStart, asOf).Sub(h.Exercised)
	if vested.IsNegative() {
		// An asOf before recorded exercises would otherwise go negative.
		vested = Q(0)
	}
	return vested, h.Quantity.Sub(vested)
}
