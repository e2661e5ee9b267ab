package captable

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Replay folds the ledger's events, in chronological order, into cap-table
// state. It returns the final state and one snapshot per event (the state
// just after that event applied).
//
// Replay is a pure function of the ledger: the same events always produce
// the same state, and a failure leaves no side effect. Each event handler
// receives a deep copy of the prior state, so no snapshot aliases another.
// A handler failure aborts the replay at the offending event; the caller
// must treat that event as rejected and not persist it.
func Replay(l *Ledger) (*Company, []*Company, error) {
	states := make([]*Company, 0, l.Len())
	prior := NewCompany()
	for _, ev := range l.events {
		fixed, err := ev.Validate()
		if err != nil {
			return nil, nil, err
		}
		next := prior.Clone()
		if err := apply(next, fixed); err != nil {
			return nil, nil, err
		}
		next.AsOfEventID = fixed.ID()
		next.AsOfDate = fixed.When()
		next.AsOfLabel = fixed.Label()
		states = append(states, next)
		prior = next
	}
	return prior, states, nil
}

// apply dispatches an event to its handler. The switch is exhaustive over
// the event types defined in this package.
func apply(c *Company, ev Event) error {
	switch v := ev.(type) {
	case Incorporation:
		return applyIncorporation(c, v)
	case PricedRound:
		return applyPricedRound(c, v)
	case SafeIssuance:
		return applySafeIssuance(c, v)
	case PoolCreation:
		return applyPoolCreation(c, v)
	case PoolExtension:
		return applyPoolExtension(c, v)
	case OptionGrant:
		return applyOptionGrant(c, v)
	case OptionExercise:
		return applyOptionExercise(c, v)
	default:
		return eventErr(ev, ErrMalformed, "unhandled event type %T", ev)
	}
}

const defaultOptionClassName = "Options"

// sizeFromTargetPercent solves shares = base * pct/(1-pct), the pool and
// grant sizing formula, rounded half-up to whole shares. The multiplication
// runs before the division to keep terminating decimals exact.
func sizeFromTargetPercent(base Quantity, p Percent) Quantity {
	pd := decimal.NewFromFloat(float64(p)).Div(hundred)
	denom := decimal.NewFromInt(1).Sub(pd)
	return Quantity{value: base.Decimal().Mul(pd).Div(denom)}.RoundHalfUp()
}

// creditShares adds shares to the holder's non-option holding in the given
// class, creating the holding if absent.
func creditShares(c *Company, holder Holder, class string, qty Quantity, origin string) {
	if h := c.holding(holder, class, false); h != nil {
		h.Quantity = h.Quantity.Add(qty)
		return
	}
	c.Holdings = append(c.Holdings, &Holding{
		Holder:        holder,
		Class:         class,
		Quantity:      qty,
		OriginEventID: origin,
	})
}

// ensureOptionClass returns the option class, creating it with the given
// name if no option class exists yet.
func ensureOptionClass(c *Company, name string) *ShareClass {
	if sc := c.ClassOfKind(ClassOption); sc != nil {
		return sc
	}
	if name == "" {
		name = defaultOptionClassName
	}
	sc := &ShareClass{
		Name:             name,
		Kind:             ClassOption,
		PrefMultiple:     decimal.NewFromInt(1),
		Participation:    ParticipationNone,
		ConvertsToCommon: true,
	}
	c.ShareClasses = append(c.ShareClasses, sc)
	return sc
}

// addToPool adds shares to the unallocated pool holding of the option class,
// creating the holding if absent.
func addToPool(c *Company, class string, qty Quantity, origin string) {
	if pool := c.PoolHolding(); pool != nil {
		pool.Quantity = pool.Quantity.Add(qty)
		return
	}
	c.Holdings = append(c.Holdings, &Holding{
		Holder:        PoolHolder(),
		Class:         class,
		Quantity:      qty,
		OriginEventID: origin,
		IsOption:      true,
	})
}

func applyIncorporation(c *Company, ev Incorporation) error {
	if len(c.ShareClasses) > 0 {
		return eventErr(ev, ErrDomain, "company is already incorporated")
	}
	c.ID = ev.CompanyID
	c.Name = ev.CompanyName

	common := &ShareClass{
		Name:             "Common",
		Kind:             ClassCommon,
		Seniority:        0,
		PrefMultiple:     decimal.NewFromInt(1),
		Participation:    ParticipationNone,
		ConvertsToCommon: true,
	}
	c.ShareClasses = append(c.ShareClasses, common)

	for _, f := range ev.Founders {
		c.admit(f.PersonID, f.Name, CategoryFounder)
	}

	byShares := !ev.Founders[0].Shares.IsZero()
	if byShares {
		issued := Q(0)
		for _, f := range ev.Founders {
			issued = issued.Add(f.Shares)
		}
		if !issued.Equal(ev.TotalShares) {
			return eventErr(ev, ErrMalformed, "founder shares sum to %s, want totalShares %s", issued, ev.TotalShares)
		}
		for _, f := range ev.Founders {
			creditShares(c, PersonHolder(f.PersonID), common.Name, f.Shares, ev.ID())
		}
	} else {
		weights := make([]Share, len(ev.Founders))
		for i, f := range ev.Founders {
			weights[i] = Share{ID: f.PersonID, Shares: Q(float64(f.Percent))}
		}
		allocated, err := Distribute(ev.TotalShares, weights)
		if err != nil {
			return eventErr(ev, ErrMalformed, "founder percentages do not resolve to an allocation: %v", err)
		}
		for _, a := range allocated {
			creditShares(c, PersonHolder(a.ID), common.Name, a.Shares, ev.ID())
		}
	}

	if ev.Pool != nil {
		sc := ensureOptionClass(c, ev.Pool.Class)
		size := ev.Pool.Shares
		if !ev.Pool.Percent.Equal(0) {
			// Percentage mode assumes the pool is the only dilutive factor
			// at incorporation: existing * pct/(1-pct).
			size = sizeFromTargetPercent(c.LegalIssuedShares(), ev.Pool.Percent)
		}
		addToPool(c, sc.Name, size, ev.ID())
	}
	return nil
}

func applySafeIssuance(c *Company, ev SafeIssuance) error {
	for _, t := range ev.Safes {
		if c.Safe(t.SafeID) != nil {
			return eventErr(ev, ErrMalformed, "safe %s already exists", t.SafeID)
		}
		c.admit(t.InvestorID, t.Name, CategoryInvestor)
		c.Safes = append(c.Safes, &SAFE{
			ID:         t.SafeID,
			InvestorID: t.InvestorID,
			Principal:  t.Principal,
			Basis:      t.Basis,
			Cap:        t.Cap,
			Discount:   t.Discount,
			MFN:        t.MFN,
			IssueDate:  ev.When(),
		})
	}
	return nil
}

func applyPoolCreation(c *Company, ev PoolCreation) error {
	if c.ClassOfKind(ClassCommon) == nil {
		return eventErr(ev, ErrReferential, "cannot create a pool before incorporation")
	}
	sc := ensureOptionClass(c, ev.Pool.Class)
	size := ev.Pool.Shares
	if !ev.Pool.Percent.Equal(0) {
		legal := c.LegalIssuedShares()
		if !legal.IsPositive() {
			return eventErr(ev, ErrDomain, "cannot size a pool by percent with no issued shares")
		}
		size = sizeFromTargetPercent(legal, ev.Pool.Percent)
	}
	addToPool(c, sc.Name, size, ev.ID())
	return nil
}

func applyPoolExtension(c *Company, ev PoolExtension) error {
	pool := c.PoolHolding()
	if pool == nil {
		return eventErr(ev, ErrReferential, "no option pool to extend")
	}
	extension := ev.AdditionalShares
	if !ev.TargetPercent.Equal(0) {
		nonPool := c.FullyDilutedShares().Sub(pool.Quantity)
		target := sizeFromTargetPercent(nonPool, ev.TargetPercent)
		extension = target.Sub(pool.Quantity)
		if extension.IsNegative() {
			// The pool already meets the target; never shrink it.
			extension = Q(0)
		}
	}
	pool.Quantity = pool.Quantity.Add(extension)
	return nil
}

func applyOptionGrant(c *Company, ev OptionGrant) error {
	optionClass := c.ClassOfKind(ClassOption)
	pool := c.PoolHolding()
	if optionClass == nil || pool == nil {
		return eventErr(ev, ErrReferential, "no option pool to grant from")
	}

	shares := ev.Shares
	if !ev.TargetPercent.Equal(0) {
		shares = sizeFromTargetPercent(c.FullyDilutedShares(), ev.TargetPercent)
	}
	if shares.GreaterThan(pool.Quantity) {
		return eventErr(ev, ErrCapacity, "grant of %s shares exceeds pool balance %s", shares, pool.Quantity)
	}

	c.admit(ev.PersonID, ev.Name, ev.Category)

	scheduleID := ""
	if ev.Vesting != nil {
		freq := ev.Vesting.FrequencyMonths
		if freq <= 0 {
			freq = 1
		}
		scheduleID = "vs-" + ev.ID()
		c.Schedules = append(c.Schedules, &VestingSchedule{
			ID:              scheduleID,
			CliffMonths:     ev.Vesting.CliffMonths,
			TotalMonths:     ev.Vesting.TotalMonths,
			CliffPercent:    ev.Vesting.CliffPercent,
			FrequencyMonths: freq,
		})
	}

	pool.Quantity = pool.Quantity.Sub(shares)
	// Each grant gets its own holding: grants carry their own vesting clock
	// and strike, so they never merge into an earlier one.
	c.Holdings = append(c.Holdings, &Holding{
		Holder:        PersonHolder(ev.PersonID),
		Class:         optionClass.Name,
		Quantity:      shares,
		OriginEventID: ev.ID(),
		IsOption:      true,
		Strike:        ev.Strike,
		Schedule:      scheduleID,
		VestingStart:  ev.VestingStart,
		GrantDate:     ev.When(),
	})
	return nil
}

func applyOptionExercise(c *Company, ev OptionExercise) error {
	common := c.ClassOfKind(ClassCommon)
	if common == nil || c.ClassOfKind(ClassOption) == nil {
		return eventErr(ev, ErrReferential, "no option class to exercise from")
	}
	holder := PersonHolder(ev.PersonID)

	// Collect the person's grants and their exercisable balances: vested
	// shares net of what earlier exercises already consumed.
	var grants []*Holding
	vestedTotal := Q(0)
	vestedBy := map[*Holding]Quantity{}
	for _, h := range c.Holdings {
		if h.Holder != holder || !h.IsOption {
			continue
		}
		vested, _ := c.VestedSplit(h, ev.When())
		grants = append(grants, h)
		vestedBy[h] = vested
		vestedTotal = vestedTotal.Add(vested)
	}
	if len(grants) == 0 {
		return eventErr(ev, ErrReferential, "person %s holds no options", ev.PersonID)
	}
	if vestedTotal.LessThan(ev.Shares) {
		return eventErr(ev, ErrCapacity, "cannot exercise %s shares, only %s vested on %s", ev.Shares, vestedTotal, ev.When())
	}

	// Consume vested shares oldest grant first.
	sort.SliceStable(grants, func(i, j int) bool {
		return grants[i].GrantDate.Before(grants[j].GrantDate)
	})
	remaining := ev.Shares
	for _, h := range grants {
		if !remaining.IsPositive() {
			break
		}
		take := vestedBy[h]
		if take.GreaterThan(remaining) {
			take = remaining
		}
		h.Quantity = h.Quantity.Sub(take)
		h.Exercised = h.Exercised.Add(take)
		remaining = remaining.Sub(take)
	}

	creditShares(c, holder, common.Name, ev.Shares, ev.ID())
	return nil
}

func applyPricedRound(c *Company, ev PricedRound) error {
	if c.ClassOfKind(ClassCommon) == nil {
		return eventErr(ev, ErrReferential, "cannot price a round before incorporation")
	}
	if c.Class(ev.Class) != nil {
		return eventErr(ev, ErrDomain, "share class %q already exists", ev.Class)
	}
	preFD := c.FullyDilutedShares()
	if !preFD.IsPositive() {
		return eventErr(ev, ErrDomain, "no fully diluted shares to price the round against")
	}

	// Select the SAFEs to convert: the listed ones, or all outstanding.
	var safes []*SAFE
	if len(ev.ConvertSafes) > 0 {
		for _, id := range ev.ConvertSafes {
			s := c.Safe(id)
			if s == nil {
				return eventErr(ev, ErrReferential, "unknown safe %s", id)
			}
			if !s.Outstanding() {
				return eventErr(ev, ErrDomain, "safe %s already converted in event %s", id, s.ConvertedInEventID)
			}
			safes = append(safes, s)
		}
	} else {
		safes = c.OutstandingSafes()
	}

	price, err := roundPrice(ev, preFD, safes)
	if err != nil {
		return eventErr(ev, ErrDomain, "%v", err)
	}
	if !price.IsPositive() {
		return eventErr(ev, ErrDomain, "round price resolved to %v", price)
	}

	class := &ShareClass{
		Name:             ev.Class,
		Kind:             ClassPreferred,
		Seniority:        c.maxSeniority() + 1,
		PrefMultiple:     ev.PrefMultiple,
		Participation:    ev.Participation,
		ParticipationCap: ev.ParticipationCap,
		ConvertsToCommon: true,
		IssuePrice:       price,
	}
	c.ShareClasses = append(c.ShareClasses, class)

	// Convert the selected SAFEs into the new preferred class.
	for _, s := range safes {
		shares := s.ConversionShares(price, preFD)
		creditShares(c, PersonHolder(s.InvestorID), class.Name, shares, ev.ID())
		s.ConvertedInEventID = ev.ID()
	}

	// Issue new shares to cash investors, allocated by investment proportion.
	newMoney := M(decimal.Zero, ev.Valuation.Currency())
	weights := make([]Share, len(ev.Investments))
	for i, inv := range ev.Investments {
		newMoney = newMoney.Add(inv.Amount)
		weights[i] = Share{ID: inv.InvestorID, Shares: Q(inv.Amount.Decimal())}
	}
	newShares := newMoney.DivPrice(price).RoundHalfUp()
	allocated, err := Distribute(newShares, weights)
	if err != nil {
		return eventErr(ev, ErrMalformed, "cannot allocate round shares: %v", err)
	}
	names := make(map[string]string, len(ev.Investments))
	for _, inv := range ev.Investments {
		names[inv.InvestorID] = inv.Name
	}
	for _, a := range allocated {
		c.admit(a.ID, names[a.ID], CategoryInvestor)
		creditShares(c, PersonHolder(a.ID), class.Name, a.Shares, ev.ID())
	}

	// Optionally top up the pool to a target post-round fully-diluted share.
	if !ev.PoolTargetPercent.Equal(0) {
		sc := ensureOptionClass(c, "")
		current := c.PoolBalance()
		nonPool := c.FullyDilutedShares().Sub(current)
		target := sizeFromTargetPercent(nonPool, ev.PoolTargetPercent)
		extension := target.Sub(current)
		if extension.IsPositive() {
			addToPool(c, sc.Name, extension, ev.ID())
		}
	}
	return nil
}
