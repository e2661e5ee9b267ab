package captable

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// DistributionMethod labels how a waterfall row got its proceeds.
type DistributionMethod string

const (
	// MethodPreference: the holder took the liquidation preference.
	MethodPreference DistributionMethod = "preference"
	// MethodConversion: a non-participating holder converted to common
	// because the as-converted value beat the preference.
	MethodConversion DistributionMethod = "conversion"
	// MethodParticipating: preference plus a pro-rata share of the residual.
	MethodParticipating DistributionMethod = "participating"
	// MethodCommon: plain pro-rata common distribution.
	MethodCommon DistributionMethod = "common"
)

// WaterfallRow is one holder's payout in one share class.
type WaterfallRow struct {
	Holder   Holder
	Class    string
	Shares   Quantity
	Invested Money // original investment, zero for common
	Proceeds Money
	Percent  Percent         // share of the exit value
	Multiple decimal.Decimal // proceeds over invested, zero when nothing was invested
	Method   DistributionMethod
}

// Waterfall is the full exit distribution. Rows are ordered by payout
// priority: senior preferences first, then the residual distribution.
// Undistributed is whatever the participation caps left on the table; the
// row proceeds plus Undistributed always equal the exit value.
type Waterfall struct {
	ExitValue     Money
	Rows          []*WaterfallRow
	Undistributed Money
}

// residualClaim is a row entitled to a slice of the residual distribution,
// with an optional payout ceiling carried over from a capped class.
type residualClaim struct {
	row    *WaterfallRow
	capped bool
	cap    Money
}

// ExitWaterfall distributes an exit value across the cap table.
//
// Outstanding SAFEs convert to common at their exit-implied terms first.
// Preferred classes are then walked in descending seniority: each
// non-participating holder takes the larger of its preference and its
// as-converted value, participating holders take the preference and then
// share the residual, capped participation is clamped to the cap. Whatever
// remains is split pro rata over the common-equivalent shares. Unexercised
// options and the unallocated pool get nothing.
func ExitWaterfall(c *Company, exit Money) (*Waterfall, error) {
	if !exit.IsPositive() {
		return nil, fmt.Errorf("exit value must be positive, got %v", exit)
	}
	state := c.Clone()
	common := state.ClassOfKind(ClassCommon)
	if common == nil {
		return nil, fmt.Errorf("no shares to distribute %v over", exit)
	}
	fd := state.FullyDilutedShares()
	if !fd.IsPositive() {
		return nil, fmt.Errorf("no shares to distribute %v over", exit)
	}

	// Convert the outstanding SAFEs at the exit-implied share price, as if
	// the exit were a priced round at the exit value.
	exitPrice := exit.Div(fd)
	for _, s := range state.OutstandingSafes() {
		shares := s.ConversionShares(exitPrice, fd)
		creditShares(state, PersonHolder(s.InvestorID), common.Name, shares, "exit")
		s.ConvertedInEventID = "exit"
	}

	// The common-equivalent base: every non-option holding. Unexercised
	// options and the pool are out of the money at a sale of the company.
	equivalent := Q(0)
	for _, h := range state.Holdings {
		if !h.IsOption && !h.Holder.IsPool() {
			equivalent = equivalent.Add(h.Quantity)
		}
	}

	var (
		prefRows []*WaterfallRow
		tailRows []*WaterfallRow
		claims   []residualClaim
	)
	remaining := exit

	// Preferred classes, most senior first.
	classes := make([]*ShareClass, 0, len(state.ShareClasses))
	for _, sc := range state.ShareClasses {
		if sc.Kind == ClassPreferred {
			classes = append(classes, sc)
		}
	}
	sort.SliceStable(classes, func(i, j int) bool { return classes[i].Seniority > classes[j].Seniority })

	for _, sc := range classes {
		// Collect the class claims first so a shortfall can be pro-rated
		// within the class instead of favoring holding order.
		type prefClaim struct {
			h        *Holding
			invested Money
			pref     Money
		}
		var due []prefClaim
		duePref := M(0, exit.Currency())
		for _, h := range state.Holdings {
			if h.Class != sc.Name || h.IsOption || h.Quantity.IsZero() {
				continue
			}
			invested := sc.IssuePrice.Mul(h.Quantity)
			pref := invested.MulFactor(sc.PrefMultiple)

			if sc.Participation == ParticipationNone {
				asConverted := exit.Mul(h.Quantity).Div(equivalent)
				if asConverted.GreaterThan(pref) {
					// Conversion pays better: waive the preference and
					// join the residual distribution as common.
					row := &WaterfallRow{
						Holder:   h.Holder,
						Class:    sc.Name,
						Shares:   h.Quantity,
						Invested: invested,
						Proceeds: M(0, exit.Currency()),
						Method:   MethodConversion,
					}
					tailRows = append(tailRows, row)
					claims = append(claims, residualClaim{row: row})
					continue
				}
			}
			due = append(due, prefClaim{h: h, invested: invested, pref: pref})
			duePref = duePref.Add(pref)
		}

		// Pay the class preferences, pro-rated if the money runs out.
		ratio := decimal.NewFromInt(1)
		if duePref.GreaterThan(remaining) && duePref.IsPositive() {
			ratio = remaining.Decimal().Div(duePref.Decimal())
		}
		for _, cl := range due {
			paid := cl.pref.MulFactor(ratio)
			remaining = remaining.Sub(paid)
			row := &WaterfallRow{
				Holder:   cl.h.Holder,
				Class:    sc.Name,
				Shares:   cl.h.Quantity,
				Invested: cl.invested,
				Proceeds: paid,
				Method:   MethodPreference,
			}
			if sc.Participation != ParticipationNone {
				row.Method = MethodParticipating
				rc := residualClaim{row: row}
				if sc.Participation == ParticipationCapped {
					rc.capped = true
					rc.cap = cl.invested.MulFactor(sc.ParticipationCap)
				}
				claims = append(claims, rc)
			}
			prefRows = append(prefRows, row)
		}
	}

	// Common holdings join the residual distribution.
	for _, h := range state.Holdings {
		if h.IsOption || h.Holder.IsPool() || h.Quantity.IsZero() {
			continue
		}
		if sc := state.Class(h.Class); sc == nil || sc.Kind != ClassCommon {
			continue
		}
		row := &WaterfallRow{
			Holder:   h.Holder,
			Class:    h.Class,
			Shares:   h.Quantity,
			Proceeds: M(0, exit.Currency()),
			Method:   MethodCommon,
		}
		tailRows = append(tailRows, row)
		claims = append(claims, residualClaim{row: row})
	}

	// Residual distribution, pro rata over the claiming shares. A capped
	// claim is clamped to its ceiling; the excess stays undistributed
	// rather than being re-cycled, which keeps the pass single and the
	// total payout within the exit value.
	residualShares := Q(0)
	for _, rc := range claims {
		residualShares = residualShares.Add(rc.row.Shares)
	}
	if remaining.IsPositive() && residualShares.IsPositive() {
		residual := remaining
		for _, rc := range claims {
			slice := residual.Mul(rc.row.Shares).Div(residualShares)
			if rc.capped {
				headroom := rc.cap.Sub(rc.row.Proceeds)
				if headroom.IsNegative() {
					headroom = M(0, exit.Currency())
				}
				if slice.GreaterThan(headroom) {
					slice = headroom
				}
			}
			rc.row.Proceeds = rc.row.Proceeds.Add(slice)
			remaining = remaining.Sub(slice)
		}
	}

	if remaining.IsNegative() {
		// Pro-rating a shortfall can leave a sub-cent rounding residue.
		remaining = M(0, exit.Currency())
	}
	out := &Waterfall{ExitValue: exit, Undistributed: remaining}
	out.Rows = append(prefRows, tailRows...)
	for _, r := range out.Rows {
		r.Percent = Percent(r.Proceeds.Decimal().Div(exit.Decimal()).InexactFloat64() * 100)
		if r.Invested.IsPositive() {
			r.Multiple = r.Proceeds.Decimal().Div(r.Invested.Decimal())
		}
	}
	return out, nil
}
