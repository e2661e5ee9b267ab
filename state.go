package captable

import (
	"github.com/shopspring/decimal"
)

// PersonCategory classifies a holder on the cap table.
type PersonCategory string

const (
	CategoryFounder  PersonCategory = "founder"
	CategoryEmployee PersonCategory = "employee"
	CategoryAdvisor  PersonCategory = "advisor"
	CategoryInvestor PersonCategory = "investor"
	CategoryOther    PersonCategory = "other"
)

// Person is an identified holder of securities.
type Person struct {
	ID       string
	Name     string
	Category PersonCategory
}

// ClassKind discriminates share classes.
type ClassKind string

const (
	ClassCommon    ClassKind = "common"
	ClassPreferred ClassKind = "preferred"
	ClassOption    ClassKind = "option"
)

// ParticipationMode describes a preferred class's participation right.
type ParticipationMode string

const (
	ParticipationNone   ParticipationMode = "none"
	ParticipationFull   ParticipationMode = "full"
	ParticipationCapped ParticipationMode = "capped"
)

// ShareClass describes one class of securities.
// Seniority is unique per class; a higher rank is paid first in a waterfall.
type ShareClass struct {
	Name             string
	Kind             ClassKind
	Seniority        int
	PrefMultiple     decimal.Decimal
	Participation    ParticipationMode
	ParticipationCap decimal.Decimal // payout cap as a multiple of investment, when Participation is capped
	ConvertsToCommon bool
	IssuePrice       Money
}

// HolderKind discriminates a holding's owner: a person, or the unallocated
// option pool. The pool is not a person; modelling it this way keeps it out
// of every people-indexed view without sentinel-id filtering.
type HolderKind int

const (
	HolderPerson HolderKind = iota
	HolderPool
)

// Holder identifies the owner of a holding.
type Holder struct {
	Kind     HolderKind
	PersonID string // empty for the pool
}

// PersonHolder returns a Holder for the given person id.
func PersonHolder(id string) Holder { return Holder{Kind: HolderPerson, PersonID: id} }

// PoolHolder returns the Holder standing for the unallocated option pool.
func PoolHolder() Holder { return Holder{Kind: HolderPool} }

func (h Holder) IsPool() bool { return h.Kind == HolderPool }

func (h Holder) String() string {
	if h.IsPool() {
		return "option pool"
	}
	return h.PersonID
}

// Holding is a running balance of one holder in one share class.
// Grants and exercises mutate the quantity in place within a fold; the row
// is never deleted, a balance may drop to zero and stay.
type Holding struct {
	Holder        Holder
	Class         string // share class name
	Quantity      Quantity
	OriginEventID string
	IsOption      bool

	// option-only fields
	Strike       Money
	Schedule     string   // vesting schedule id; empty means fully vested
	Exercised    Quantity // cumulative shares exercised out of this grant
	VestingStart Date
	GrantDate    Date
}

// GrantTotal returns the size of the original grant: the running balance
// plus everything already exercised. Vesting applies to this total, not to
// the balance an exercise has since reduced.
func (h *Holding) GrantTotal() Quantity { return h.Quantity.Add(h.Exercised) }

// ValuationBasis tells whether a valuation amount is pre- or post-money.
type ValuationBasis string

const (
	PreMoney  ValuationBasis = "pre-money"
	PostMoney ValuationBasis = "post-money"
)

// SAFE is a convertible note awaiting a priced round.
// Once ConvertedInEventID is set the note never converts again.
type SAFE struct {
	ID                 string
	InvestorID         string
	Principal          Money
	Basis              ValuationBasis
	Cap                Money           // zero means no valuation cap
	Discount           decimal.Decimal // percent, e.g. 20 for a 20% discount; zero means none
	MFN                bool
	IssueDate          Date
	ConvertedInEventID string // empty while outstanding
}

// Outstanding reports whether the note has not converted yet.
func (s *SAFE) Outstanding() bool { return s.ConvertedInEventID == "" }

// VestingSchedule is a cliff + linear schedule shared by option holdings.
type VestingSchedule struct {
	ID              string
	CliffMonths     int
	TotalMonths     int
	CliffPercent    decimal.Decimal // percent of total vesting at the cliff
	FrequencyMonths int             // vesting step after the cliff; 1 = monthly
}

// Company is the aggregate state produced by folding events.
// The replay engine owns it during the fold; callers receive it as a
// snapshot and must not mutate it.
type Company struct {
	ID   string
	Name string

	ShareClasses []*ShareClass
	Holdings     []*Holding
	Safes        []*SAFE
	People       []*Person
	Schedules    []*VestingSchedule

	AsOfEventID string
	AsOfDate    Date
	AsOfLabel   string
}

// NewCompany returns the empty pre-incorporation state.
func NewCompany() *Company {
	return &Company{}
}

// Class returns the share class with the given name, or nil.
func (c *Company) Class(name string) *ShareClass {
	for _, sc := range c.ShareClasses {
		if sc.Name == name {
			return sc
		}
	}
	return nil
}

// ClassOfKind returns the first class of the given kind, or nil.
func (c *Company) ClassOfKind(kind ClassKind) *ShareClass {
	for _, sc := range c.ShareClasses {
		if sc.Kind == kind {
			return sc
		}
	}
	return nil
}

// Person returns the person with the given id, or nil.
func (c *Company) Person(id string) *Person {
	for _, p := range c.People {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Schedule returns the vesting schedule with the given id, or nil.
func (c *Company) Schedule(id string) *VestingSchedule {
	for _, s := range c.Schedules {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Safe returns the SAFE with the given id, or nil.
func (c *Company) Safe(id string) *SAFE {
	for _, s := range c.Safes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// PoolHolding returns the unallocated option pool holding, or nil if no pool
// was ever created.
func (c *Company) PoolHolding() *Holding {
	for _, h := range c.Holdings {
		if h.Holder.IsPool() {
			return h
		}
	}
	return nil
}

// holding returns the holding of holder in class with the given option flag,
// or nil.
func (c *Company) holding(holder Holder, class string, isOption bool) *Holding {
	for _, h := range c.Holdings {
		if h.Holder == holder && h.Class == class && h.IsOption == isOption {
			return h
		}
	}
	return nil
}

// admit registers a person if unknown and returns it. An already known person
// keeps its original category.
func (c *Company) admit(id, name string, category PersonCategory) *Person {
	if p := c.Person(id); p != nil {
		return p
	}
	p := &Person{ID: id, Name: name, Category: category}
	c.People = append(c.People, p)
	return p
}

// maxSeniority returns the highest seniority rank among existing classes.
func (c *Company) maxSeniority() int {
	max := 0
	for _, sc := range c.ShareClasses {
		if sc.Seniority > max {
			max = sc.Seniority
		}
	}
	return max
}

// Clone returns a deep copy of the state. Event handlers receive and mutate
// a clone; no handler may observe a state another fold step still references.
func (c *Company) Clone() *Company {
	n := &Company{
		ID:          c.ID,
		Name:        c.Name,
		AsOfEventID: c.AsOfEventID,
		AsOfDate:    c.AsOfDate,
		AsOfLabel:   c.AsOfLabel,
	}
	n.ShareClasses = make([]*ShareClass, len(c.ShareClasses))
	for i, sc := range c.ShareClasses {
		dup := *sc
		n.ShareClasses[i] = &dup
	}
	n.Holdings = make([]*Holding, len(c.Holdings))
	for i, h := range c.Holdings {
		dup := *h
		n.Holdings[i] = &dup
	}
	n.Safes = make([]*SAFE, len(c.Safes))
	for i, s := range c.Safes {
		dup := *s
		n.Safes[i] = &dup
	}
	n.People = make([]*Person, len(c.People))
	for i, p := range c.People {
		dup := *p
		n.People[i] = &dup
	}
	n.Schedules = make([]*VestingSchedule, len(c.Schedules))
	for i, s := range c.Schedules {
		dup := *s
		n.Schedules[i] = &dup
	}
	return n
}
