package captable

// CapTableRow is one line of a cap-table view. The legal view emits one row
// per holder, with ByClass aligned on CapTable.Classes; the fully diluted
// view emits one row per holder and class, with Vested and Unvested filled
// on option rows.
type CapTableRow struct {
	Holder   Holder
	Name     string
	Category PersonCategory
	Class    string
	IsOption bool
	Shares   Quantity
	ByClass  []Quantity
	Vested   Quantity
	Unvested Quantity
	Percent  Percent
}

// CapTable is a point-in-time ownership view.
type CapTable struct {
	Company string
	AsOf    Date

	// Classes names the per-class columns of the legal view, in class
	// creation order. Empty in the fully diluted view, whose rows carry
	// their class directly.
	Classes []string
	Rows    []CapTableRow
	Total   Quantity

	// Safes lists the convertible notes still awaiting a priced round.
	// They carry no share count, so the fully diluted view reports them
	// alongside the table rather than as rows.
	Safes []*SAFE
}

// percentOf returns part as a percentage of total, 0 when total is zero.
func percentOf(part, total Quantity) Percent {
	if !total.IsPositive() {
		return 0
	}
	return Percent(part.Div(total).Decimal().InexactFloat64() * 100)
}

// rowName resolves the display name of a holder.
func (c *Company) rowName(h Holder) string {
	if h.IsPool() {
		return h.String()
	}
	if p := c.Person(h.PersonID); p != nil && p.Name != "" {
		return p.Name
	}
	return h.PersonID
}

func (c *Company) rowCategory(h Holder) PersonCategory {
	if h.IsPool() {
		return ""
	}
	if p := c.Person(h.PersonID); p != nil {
		return p.Category
	}
	return ""
}

// LegalCapTable reports issued shares only: common and preferred holdings,
// without options, the pool, or unconverted SAFEs. Each holder reads as one
// row with a share count per issued class, so a founder holding common and
// rolled-over preferred stays a single line. Percentages are over the legal
// issued total. Rows keep acquisition order.
func LegalCapTable(c *Company) *CapTable {
	total := c.LegalIssuedShares()
	t := &CapTable{Company: c.Name, AsOf: c.AsOfDate, Total: total}

	classCol := map[string]int{}
	for _, sc := range c.ShareClasses {
		if sc.Kind == ClassOption {
			continue
		}
		classCol[sc.Name] = len(t.Classes)
		t.Classes = append(t.Classes, sc.Name)
	}

	index := map[Holder]int{}
	for _, h := range c.Holdings {
		if h.IsOption || h.Quantity.IsZero() {
			continue
		}
		i, ok := index[h.Holder]
		if !ok {
			i = len(t.Rows)
			index[h.Holder] = i
			t.Rows = append(t.Rows, CapTableRow{
				Holder:   h.Holder,
				Name:     c.rowName(h.Holder),
				Category: c.rowCategory(h.Holder),
				ByClass:  make([]Quantity, len(t.Classes)),
			})
		}
		row := &t.Rows[i]
		col := classCol[h.Class]
		row.ByClass[col] = row.ByClass[col].Add(h.Quantity)
		row.Shares = row.Shares.Add(h.Quantity)
	}
	for i := range t.Rows {
		t.Rows[i].Percent = percentOf(t.Rows[i].Shares, total)
	}
	return t
}

// FullyDilutedCapTable reports ownership as if every option were exercised
// and the pool fully granted: issued shares, option grants with their
// vested/unvested split as of the given date, and the unallocated pool.
// Outstanding SAFEs are listed in Safes; their share count is unknowable
// until a round prices them.
func FullyDilutedCapTable(c *Company, asOf Date) *CapTable {
	total := c.FullyDilutedShares()
	t := &CapTable{Company: c.Name, AsOf: asOf, Total: total, Safes: c.OutstandingSafes()}

	// Option grants aggregate per holder: a person with several grants
	// reads as one row, the vesting split summed across grants.
	type key struct {
		holder Holder
		class  string
		option bool
	}
	index := map[key]int{}
	for _, h := range c.Holdings {
		if h.Quantity.IsZero() {
			continue
		}
		k := key{holder: h.Holder, class: h.Class, option: h.IsOption}
		i, ok := index[k]
		if !ok {
			i = len(t.Rows)
			index[k] = i
			t.Rows = append(t.Rows, CapTableRow{
				Holder:   h.Holder,
				Name:     c.rowName(h.Holder),
				Category: c.rowCategory(h.Holder),
				Class:    h.Class,
				IsOption: h.IsOption,
			})
		}
		row := &t.Rows[i]
		row.Shares = row.Shares.Add(h.Quantity)
		if h.IsOption && !h.Holder.IsPool() {
			vested, unvested := c.VestedSplit(h, asOf)
			row.Vested = row.Vested.Add(vested)
			row.Unvested = row.Unvested.Add(unvested)
		}
	}
	for i := range t.Rows {
		t.Rows[i].Percent = percentOf(t.Rows[i].Shares, total)
	}
	return t
}

// Stake is one holder's fully diluted position at a point in time.
type Stake struct {
	Holder  Holder
	Name    string
	Shares  Quantity
	Percent Percent
}

// EvolutionPoint is the ownership breakdown just after one event.
type EvolutionPoint struct {
	EventID      string
	Date         Date
	Label        string
	FullyDiluted Quantity
	Stakes       []Stake
}

// OwnershipEvolution tracks each person's fully diluted percentage across
// the event history, one point per snapshot. The unallocated pool dilutes
// everyone but is not itself an owner, so it carries no stake row.
// Stakes keep first-appearance order across points, so columns line up when
// the points render as a matrix.
func OwnershipEvolution(states []*Company) []EvolutionPoint {
	var order []Holder
	seen := map[Holder]bool{}

	points := make([]EvolutionPoint, 0, len(states))
	for _, c := range states {
		total := c.FullyDilutedShares()
		p := EvolutionPoint{EventID: c.AsOfEventID, Date: c.AsOfDate, Label: c.AsOfLabel, FullyDiluted: total}

		byHolder := map[Holder]Quantity{}
		for _, h := range c.Holdings {
			if h.Holder.IsPool() || h.Quantity.IsZero() {
				continue
			}
			byHolder[h.Holder] = byHolder[h.Holder].Add(h.Quantity)
			if !seen[h.Holder] {
				seen[h.Holder] = true
				order = append(order, h.Holder)
			}
		}
		for _, holder := range order {
			shares, ok := byHolder[holder]
			if !ok {
				continue
			}
			p.Stakes = append(p.Stakes, Stake{
				Holder:  holder,
				Name:    c.rowName(holder),
				Shares:  shares,
				Percent: percentOf(shares, total),
			})
		}
		points = append(points, p)
	}
	return points
}
