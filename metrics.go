package captable

// Aggregate share metrics derived from the state. Several event handlers
// depend on these (pool sizing, grant sizing, round pricing), so they live
// on Company rather than in the view builders.

// LegalIssuedShares returns the number of issued, non-option shares.
func (c *Company) LegalIssuedShares() Quantity {
	total := Q(0)
	for _, h := range c.Holdings {
		if h.IsOption {
			continue
		}
		total = total.Add(h.Quantity)
	}
	return total
}

// TotalOptionShares returns all option shares: granted (vested or not) plus
// the unallocated pool.
func (c *Company) TotalOptionShares() Quantity {
	total := Q(0)
	for _, h := range c.Holdings {
		if h.IsOption {
			total = total.Add(h.Quantity)
		}
	}
	return total
}

// FullyDilutedShares returns legal issued shares plus all option shares,
// as if every option (and the pool) were exercised.
func (c *Company) FullyDilutedShares() Quantity {
	return c.LegalIssuedShares().Add(c.TotalOptionShares())
}

// PoolBalance returns the unallocated option pool balance, zero if no pool.
func (c *Company) PoolBalance() Quantity {
	if pool := c.PoolHolding(); pool != nil {
		return pool.Quantity
	}
	return Q(0)
}

// ClassShares returns the total shares held in the given class.
func (c *Company) ClassShares(class string) Quantity {
	total := Q(0)
	for _, h := range c.Holdings {
		if h.Class == class {
			total = total.Add(h.Quantity)
		}
	}
	return total
}

// HolderShares returns the total shares (of any class, options included)
// held by the given holder.
func (c *Company) HolderShares(holder Holder) Quantity {
	total := Q(0)
	for _, h := range c.Holdings {
		if h.Holder == holder {
			total = total.Add(h.Quantity)
		}
	}
	return total
}

// OutstandingSafes returns the SAFEs that have not converted yet, in
// issuance order.
func (c *Company) OutstandingSafes() []*SAFE {
	var out []*SAFE
	for _, s := range c.Safes {
		if s.Outstanding() {
			out = append(out, s)
		}
	}
	return out
}
