package captable

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType is a typed string identifying event kinds.
type EventType string

// Event types used to identify corporate-finance events.
const (
	EvIncorporation  EventType = "incorporation"
	EvPricedRound    EventType = "priced-round"
	EvSafeIssuance   EventType = "safe-issuance"
	EvPoolCreation   EventType = "pool-creation"
	EvPoolExtension  EventType = "pool-extension"
	EvOptionGrant    EventType = "option-grant"
	EvOptionExercise EventType = "option-exercise"
)

// Event defines the common interface for all corporate-finance events that
// can be recorded in a ledger and replayed into cap-table state.
type Event interface {
	What() EventType // What returns the event kind (e.g. "priced-round").
	When() Date      // When returns the event's effective date.
	ID() string      // ID returns the event identifier.
	Seq() int        // Seq returns the insertion sequence number, the same-date tie-break.
	Label() string   // Label returns the human description of the event.
	Equal(Event) bool
	Validate() (Event, error)
}

type baseEvent struct {
	Type      EventType `json:"event"`             // Type specifies the kind of event.
	EventID   string    `json:"id"`                // EventID identifies the event.
	CompanyID string    `json:"company,omitempty"` // CompanyID identifies the company the event belongs to.
	Date      Date      `json:"date"`              // Date is the effective date of the event.
	Note      string    `json:"label,omitempty"`   // Note is a human label (e.g. "Seed round").
	Sequence  int       `json:"seq,omitempty"`     // Sequence is the original insertion order, used to break same-date ties.
}

func (e baseEvent) What() EventType { return e.Type }
func (e baseEvent) When() Date      { return e.Date }
func (e baseEvent) ID() string      { return e.EventID }
func (e baseEvent) Seq() int        { return e.Sequence }
func (e baseEvent) Label() string   { return e.Note }

// MarshalJSON implements the json.Marshaler interface for baseEvent.
func (e baseEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("event", e.Type)
	w.Append("id", e.EventID)
	w.Optional("company", e.CompanyID)
	w.Append("date", e.Date)
	w.Optional("label", e.Note)
	w.Optional("seq", e.Sequence)
	return w.MarshalJSON()
}

// validate checks the base fields and applies quick fixes: a missing id is
// generated. A missing date is an error since replay order depends on it.
func (e baseEvent) validate() (baseEvent, error) {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.Date.IsZero() {
		return e, eventErr(e, ErrMalformed, "event date is missing")
	}
	return e, nil
}

func newBase(what EventType, on Date, label string) baseEvent {
	return baseEvent{Type: what, EventID: uuid.NewString(), Date: on, Note: label}
}

// --- Incorporation ---

// FounderStake describes one founder's initial allocation, either as an
// explicit share count or as a percentage of the total issued shares.
type FounderStake struct {
	PersonID string   `json:"person"`
	Name     string   `json:"name,omitempty"`
	Shares   Quantity `json:"shares,omitempty"`
	Percent  Percent  `json:"percent,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface for FounderStake.
func (s FounderStake) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("person", s.PersonID)
	w.Optional("name", s.Name)
	w.Optional("shares", s.Shares)
	w.Optional("percent", s.Percent)
	return w.MarshalJSON()
}

func (s FounderStake) equal(o FounderStake) bool {
	return s.PersonID == o.PersonID && s.Name == o.Name &&
		s.Shares.Equal(o.Shares) && s.Percent.Equal(o.Percent)
}

// PoolTerms sizes an option pool either as a fixed share count or as a
// target percentage of fully diluted shares.
type PoolTerms struct {
	Class   string   `json:"class,omitempty"` // option class name, defaults to "Options"
	Shares  Quantity `json:"shares,omitempty"`
	Percent Percent  `json:"percent,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface for PoolTerms.
func (p PoolTerms) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("class", p.Class)
	w.Optional("shares", p.Shares)
	w.Optional("percent", p.Percent)
	return w.MarshalJSON()
}

func (p *PoolTerms) equal(o *PoolTerms) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Class == o.Class && p.Shares.Equal(o.Shares) && p.Percent.Equal(o.Percent)
}

// Incorporation creates the company: the Common share class, the founders
// and their initial holdings, and optionally the initial option pool.
type Incorporation struct {
	baseEvent
	CompanyName string         `json:"companyName,omitempty"`
	TotalShares Quantity       `json:"totalShares"`
	Founders    []FounderStake `json:"founders"`
	Pool        *PoolTerms     `json:"pool,omitempty"`
}

// NewIncorporation creates a new Incorporation event.
func NewIncorporation(on Date, label, companyName string, totalShares Quantity, founders []FounderStake, pool *PoolTerms) Incorporation {
	return Incorporation{
		baseEvent:   newBase(EvIncorporation, on, label),
		CompanyName: companyName,
		TotalShares: totalShares,
		Founders:    founders,
		Pool:        pool,
	}
}

// MarshalJSON implements the json.Marshaler interface for Incorporation.
func (e Incorporation) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Optional("companyName", e.CompanyName)
	w.Append("totalShares", e.TotalShares)
	w.Append("founders", e.Founders)
	if e.Pool != nil {
		w.Append("pool", e.Pool)
	}
	return w.MarshalJSON()
}

func (e Incorporation) Equal(other Event) bool {
	o, ok := other.(Incorporation)
	if !ok || e.baseEvent != o.baseEvent || e.CompanyName != o.CompanyName ||
		!e.TotalShares.Equal(o.TotalShares) || len(e.Founders) != len(o.Founders) ||
		!e.Pool.equal(o.Pool) {
		return false
	}
	for i := range e.Founders {
		if !e.Founders[i].equal(o.Founders[i]) {
			return false
		}
	}
	return true
}

// Validate checks the Incorporation event's fields. Founders must be listed
// either all by share count or all by percentage, never mixed, because the
// allocator needs a single distribution mode.
func (e Incorporation) Validate() (Event, error) {
	base, err := e.baseEvent.validate()
	if err != nil {
		return e, err
	}
	e.baseEvent = base

	if !e.TotalShares.IsPositive() || !e.TotalShares.IsWhole() {
		return e, eventErr(e, ErrMalformed, "totalShares must be a positive whole number, got %s", e.TotalShares)
	}
	if len(e.Founders) == 0 {
		return e, eventErr(e, ErrMalformed, "founder list is missing")
	}
	var byShares, byPercent bool
	for _, f := range e.Founders {
		if f.PersonID == "" {
			return e, eventErr(e, ErrMalformed, "founder person id is missing")
		}
		if !f.Shares.IsZero() {
			byShares = true
		}
		if f.Percent != 0 {
			byPercent = true
		}
	}
	if byShares && byPercent {
		return e, eventErr(e, ErrMalformed, "founders must be allocated all by shares or all by percent")
	}
	if !byShares && !byPercent {
		return e, eventErr(e, ErrMalformed, "founders have neither shares nor percent")
	}
	if e.Pool != nil {
		if err := validatePoolTerms(e, e.Pool); err != nil {
			return e, err
		}
	}
	return e, nil
}

func validatePoolTerms(ev Event, p *PoolTerms) error {
	if p.Shares.IsZero() && p.Percent == 0 {
		return eventErr(ev, ErrMalformed, "pool needs either shares or percent")
	}
	if !p.Shares.IsZero() && p.Percent != 0 {
		return eventErr(ev, ErrMalformed, "pool cannot have both shares and percent")
	}
	if p.Shares.IsNegative() || !p.Shares.IsWhole() {
		return eventErr(ev, ErrMalformed, "pool shares must be a non-negative whole number, got %s", p.Shares)
	}
	if p.Percent < 0 {
		return eventErr(ev, ErrMalformed, "pool percent must be non-negative, got %s", p.Percent)
	}
	if p.Percent >= 100 {
		// The sizing formula divides by 1-pct.
		return eventErr(ev, ErrDomain, "pool percent must be below 100%%, got %s", p.Percent)
	}
	return nil
}

// --- Priced Round ---

// RoundInvestment is one cash investor's participation in a priced round.
type RoundInvestment struct {
	InvestorID string `json:"investor"`
	Name       string `json:"name,omitempty"`
	Amount     Money  `json:"amount"`
}

// MarshalJSON implements the json.Marshaler interface for RoundInvestment.
func (i RoundInvestment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("investor", i.InvestorID)
	w.Optional("name", i.Name)
	w.Append("amount", i.Amount)
	return w.MarshalJSON()
}

func (i RoundInvestment) equal(o RoundInvestment) bool {
	return i.InvestorID == o.InvestorID && i.Name == o.Name && i.Amount.Equal(o.Amount)
}

// PricedRound raises new money at a negotiated valuation: it fixes the share
// price, converts outstanding SAFEs into the new preferred class, issues
// shares to cash investors, and optionally tops up the option pool.
type PricedRound struct {
	baseEvent
	Class             string            `json:"class"` // name of the new preferred class
	Valuation         Money             `json:"valuation"`
	Basis             ValuationBasis    `json:"basis"`
	Investments       []RoundInvestment `json:"investments"`
	PrefMultiple      decimal.Decimal   `json:"prefMultiple,omitempty"`      // liquidation preference multiple, defaults to 1
	Participation     ParticipationMode `json:"participation,omitempty"`     // defaults to none
	ParticipationCap  decimal.Decimal   `json:"participationCap,omitempty"`  // multiple, required when participation is capped
	PoolTargetPercent Percent           `json:"poolTargetPercent,omitempty"` // post-round fully-diluted pool target
	ConvertSafes      []string          `json:"convertSafes,omitempty"`      // SAFE ids to convert; empty converts all outstanding
}

// NewPricedRound creates a new PricedRound event with a 1x non-participating
// preference, the most common round terms.
func NewPricedRound(on Date, label, class string, valuation Money, basis ValuationBasis, investments []RoundInvestment) PricedRound {
	return PricedRound{
		baseEvent:     newBase(EvPricedRound, on, label),
		Class:         class,
		Valuation:     valuation,
		Basis:         basis,
		Investments:   investments,
		PrefMultiple:  decimal.NewFromInt(1),
		Participation: ParticipationNone,
	}
}

// MarshalJSON implements the json.Marshaler interface for PricedRound.
func (e PricedRound) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("class", e.Class)
	w.Append("valuation", e.Valuation)
	w.Append("basis", e.Basis)
	w.Append("investments", e.Investments)
	w.Optional("prefMultiple", e.PrefMultiple)
	w.Optional("participation", e.Participation)
	w.Optional("participationCap", e.ParticipationCap)
	w.Optional("poolTargetPercent", e.PoolTargetPercent)
	w.Optional("convertSafes", e.ConvertSafes)
	return w.MarshalJSON()
}

func (e PricedRound) Equal(other Event) bool {
	o, ok := other.(PricedRound)
	if !ok || e.baseEvent != o.baseEvent || e.Class != o.Class ||
		!e.Valuation.Equal(o.Valuation) || e.Basis != o.Basis ||
		!e.PrefMultiple.Equal(o.PrefMultiple) || e.Participation != o.Participation ||
		!e.ParticipationCap.Equal(o.ParticipationCap) ||
		!e.PoolTargetPercent.Equal(o.PoolTargetPercent) ||
		len(e.Investments) != len(o.Investments) || len(e.ConvertSafes) != len(o.ConvertSafes) {
		return false
	}
	for i := range e.Investments {
		if !e.Investments[i].equal(o.Investments[i]) {
			return false
		}
	}
	for i := range e.ConvertSafes {
		if e.ConvertSafes[i] != o.ConvertSafes[i] {
			return false
		}
	}
	return true
}

// Validate checks the PricedRound event's fields and applies quick fixes:
// a zero preference multiple defaults to 1x, a missing participation mode
// defaults to none.
func (e PricedRound) Validate() (Event, error) {
	base, err := e.baseEvent.validate()
	if err != nil {
		return e, err
	}
	e.baseEvent = base

	if e.Class == "" {
		return e, eventErr(e, ErrMalformed, "round class name is missing")
	}
	if !e.Valuation.IsPositive() {
		return e, eventErr(e, ErrMalformed, "round valuation must be positive, got %v", e.Valuation)
	}
	if e.Basis != PreMoney && e.Basis != PostMoney {
		return e, eventErr(e, ErrMalformed, "round basis must be %q or %q, got %q", PreMoney, PostMoney, e.Basis)
	}
	if len(e.Investments) == 0 {
		return e, eventErr(e, ErrMalformed, "investment list is missing")
	}
	for _, inv := range e.Investments {
		if inv.InvestorID == "" {
			return e, eventErr(e, ErrMalformed, "investor id is missing")
		}
		if !inv.Amount.IsPositive() {
			return e, eventErr(e, ErrMalformed, "investment by %s must be positive, got %v", inv.InvestorID, inv.Amount)
		}
	}
	if e.PrefMultiple.IsZero() {
		e.PrefMultiple = decimal.NewFromInt(1)
	}
	if e.PrefMultiple.IsNegative() {
		return e, eventErr(e, ErrMalformed, "preference multiple must be positive, got %s", e.PrefMultiple)
	}
	switch e.Participation {
	case "":
		e.Participation = ParticipationNone
	case ParticipationNone, ParticipationFull:
	case ParticipationCapped:
		if !e.ParticipationCap.IsPositive() {
			return e, eventErr(e, ErrMalformed, "capped participation needs a positive cap multiple")
		}
	default:
		return e, eventErr(e, ErrMalformed, "unknown participation mode %q", e.Participation)
	}
	if e.PoolTargetPercent < 0 {
		return e, eventErr(e, ErrMalformed, "pool target percent must be non-negative, got %s", e.PoolTargetPercent)
	}
	if e.PoolTargetPercent >= 100 {
		return e, eventErr(e, ErrDomain, "pool target percent must be below 100%%, got %s", e.PoolTargetPercent)
	}
	return e, nil
}

// --- SAFE Issuance ---

// SafeTerms describes one convertible note.
type SafeTerms struct {
	SafeID     string          `json:"safe,omitempty"` // generated when empty
	InvestorID string          `json:"investor"`
	Name       string          `json:"name,omitempty"`
	Principal  Money           `json:"principal"`
	Basis      ValuationBasis  `json:"basis,omitempty"` // valuation type of the cap, defaults to post-money
	Cap        Money           `json:"cap,omitempty"`
	Discount   decimal.Decimal `json:"discount,omitempty"` // percent, e.g. 20 for 20%
	MFN        bool            `json:"mfn,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface for SafeTerms.
func (s SafeTerms) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("safe", s.SafeID)
	w.Append("investor", s.InvestorID)
	w.Optional("name", s.Name)
	w.Append("principal", s.Principal)
	w.Optional("basis", s.Basis)
	w.Optional("cap", s.Cap)
	w.Optional("discount", s.Discount)
	w.Optional("mfn", s.MFN)
	return w.MarshalJSON()
}

func (s SafeTerms) equal(o SafeTerms) bool {
	return s.SafeID == o.SafeID && s.InvestorID == o.InvestorID && s.Name == o.Name &&
		s.Principal.Equal(o.Principal) && s.Basis == o.Basis && s.Cap.Equal(o.Cap) &&
		s.Discount.Equal(o.Discount) && s.MFN == o.MFN
}

// SafeIssuance appends one or more convertible notes. It has no share-level
// effect until a later round converts them.
type SafeIssuance struct {
	baseEvent
	Safes []SafeTerms `json:"safes"`
}

// NewSafeIssuance creates a new SafeIssuance event.
func NewSafeIssuance(on Date, label string, safes ...SafeTerms) SafeIssuance {
	return SafeIssuance{baseEvent: newBase(EvSafeIssuance, on, label), Safes: safes}
}

// MarshalJSON implements the json.Marshaler interface for SafeIssuance.
func (e SafeIssuance) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("safes", e.Safes)
	return w.MarshalJSON()
}

func (e SafeIssuance) Equal(other Event) bool {
	o, ok := other.(SafeIssuance)
	if !ok || e.baseEvent != o.baseEvent || len(e.Safes) != len(o.Safes) {
		return false
	}
	for i := range e.Safes {
		if !e.Safes[i].equal(o.Safes[i]) {
			return false
		}
	}
	return true
}

// Validate checks the SafeIssuance event's fields. Missing SAFE ids are
// generated and a missing cap basis defaults to post-money, the standard
// form since 2018.
func (e SafeIssuance) Validate() (Event, error) {
	base, err := e.baseEvent.validate()
	if err != nil {
		return e, err
	}
	e.baseEvent = base

	if len(e.Safes) == 0 {
		return e, eventErr(e, ErrMalformed, "safe list is missing")
	}
	fixed := make([]SafeTerms, len(e.Safes))
	for i, s := range e.Safes {
		if s.InvestorID == "" {
			return e, eventErr(e, ErrMalformed, "safe investor id is missing")
		}
		if !s.Principal.IsPositive() {
			return e, eventErr(e, ErrMalformed, "safe principal must be positive, got %v", s.Principal)
		}
		if s.Cap.IsNegative() {
			return e, eventErr(e, ErrMalformed, "safe cap must be non-negative, got %v", s.Cap)
		}
		if s.Discount.IsNegative() || s.Discount.GreaterThanOrEqual(decimal.NewFromInt(100)) {
			return e, eventErr(e, ErrMalformed, "safe discount must be in [0, 100), got %s", s.Discount)
		}
		if s.SafeID == "" {
			s.SafeID = uuid.NewString()
		}
		switch s.Basis {
		case "":
			s.Basis = PostMoney
		case PreMoney, PostMoney:
		default:
			return e, eventErr(e, ErrMalformed, "unknown safe basis %q", s.Basis)
		}
		fixed[i] = s
	}
	e.Safes = fixed
	return e, nil
}

// --- Option Pool events ---

// PoolCreation creates (or grows) the option pool outside a priced round.
type PoolCreation struct {
	baseEvent
	Pool PoolTerms `json:"pool"`
}

// NewPoolCreation creates a new PoolCreation event.
func NewPoolCreation(on Date, label string, pool PoolTerms) PoolCreation {
	return PoolCreation{baseEvent: newBase(EvPoolCreation, on, label), Pool: pool}
}

// MarshalJSON implements the json.Marshaler interface for PoolCreation.
func (e PoolCreation) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("pool", e.Pool)
	return w.MarshalJSON()
}

func (e PoolCreation) Equal(other Event) bool {
	o, ok := other.(PoolCreation)
	return ok && e.baseEvent == o.baseEvent && e.Pool.equal(&o.Pool)
}

// Validate checks the PoolCreation event's fields.
func (e PoolCreation) Validate() (Event, error) {
	base, err := e.baseEvent.validate()
	if err != nil {
		return e, err
	}
	e.baseEvent = base
	if err := validatePoolTerms(e, &e.Pool); err != nil {
		return e, err
	}
	return e, nil
}

// PoolExtension grows the pool to a target percentage of fully diluted
// shares, or by a fixed number of shares.
type PoolExtension struct {
	baseEvent
	TargetPercent    Percent  `json:"targetPercent,omitempty"`
	AdditionalShares Quantity `json:"additionalShares,omitempty"`
}

// NewPoolExtension creates a new PoolExtension event targeting a percentage
// of fully diluted shares.
func NewPoolExtension(on Date, label string, target Percent) PoolExtension {
	return PoolExtension{baseEvent: newBase(EvPoolExtension, on, label), TargetPercent: target}
}

// MarshalJSON implements the json.Marshaler interface for PoolExtension.
func (e PoolExtension) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Optional("targetPercent", e.TargetPercent)
	w.Optional("additionalShares", e.AdditionalShares)
	return w.MarshalJSON()
}

func (e PoolExtension) Equal(other Event) bool {
	o, ok := other.(PoolExtension)
	return ok && e.baseEvent == o.baseEvent && e.TargetPercent.Equal(o.TargetPercent) &&
		e.AdditionalShares.Equal(o.AdditionalShares)
}

// Validate checks the PoolExtension event's fields.
func (e PoolExtension) Validate() (Event, error) {
	base, err := e.baseEvent.validate()
	if err != nil {
		return e, err
	}
	e.baseEvent = base

	if e.TargetPercent == 0 && e.AdditionalShares.IsZero() {
		return e, eventErr(e, ErrMalformed, "pool extension needs either targetPercent or additionalShares")
	}
	if e.TargetPercent != 0 && !e.AdditionalShares.IsZero() {
		return e, eventErr(e, ErrMalformed, "pool extension cannot have both targetPercent and additionalShares")
	}
	if e.TargetPercent < 0 {
		return e, eventErr(e, ErrMalformed, "target percent must be non-negative, got %s", e.TargetPercent)
	}
	if e.TargetPercent >= 100 {
		return e, eventErr(e, ErrDomain, "target percent must be below 100%%, got %s", e.TargetPercent)
	}
	if e.AdditionalShares.IsNegative() || !e.AdditionalShares.IsWhole() {
		return e, eventErr(e, ErrMalformed, "additional shares must be a non-negative whole number, got %s", e.AdditionalShares)
	}
	return e, nil
}

// --- Option Grant and Exercise ---

// VestingTerms describes the schedule attached to a grant.
type VestingTerms struct {
	CliffMonths     int             `json:"cliffMonths"`
	TotalMonths     int             `json:"totalMonths"`
	CliffPercent    decimal.Decimal `json:"cliffPercent,omitempty"`
	FrequencyMonths int             `json:"frequencyMonths,omitempty"` // defaults to monthly
}

// MarshalJSON implements the json.Marshaler interface for VestingTerms.
func (v VestingTerms) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("cliffMonths", v.CliffMonths)
	w.Append("totalMonths", v.TotalMonths)
	w.Optional("cliffPercent", v.CliffPercent)
	w.Optional("frequencyMonths", v.FrequencyMonths)
	return w.MarshalJSON()
}

func (v *VestingTerms) equal(o *VestingTerms) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.CliffMonths == o.CliffMonths && v.TotalMonths == o.TotalMonths &&
		v.CliffPercent.Equal(o.CliffPercent) && v.FrequencyMonths == o.FrequencyMonths
}

// OptionGrant takes shares out of the pool and grants them to a person,
// sized either as a fixed share count or as a target fully-diluted
// percentage.
type OptionGrant struct {
	baseEvent
	PersonID      string         `json:"person"`
	Name          string         `json:"name,omitempty"`
	Category      PersonCategory `json:"category,omitempty"` // defaults to employee
	Shares        Quantity       `json:"shares,omitempty"`
	TargetPercent Percent        `json:"targetPercent,omitempty"`
	Strike        Money          `json:"strike,omitempty"`
	Vesting       *VestingTerms  `json:"vesting,omitempty"`
	VestingStart  Date           `json:"vestingStart,omitempty"`
}

// NewOptionGrant creates a new OptionGrant event for a fixed share count.
func NewOptionGrant(on Date, label, personID, name string, shares Quantity, strike Money, vesting *VestingTerms) OptionGrant {
	return OptionGrant{
		baseEvent: newBase(EvOptionGrant, on, label),
		PersonID:  personID,
		Name:      name,
		Shares:    shares,
		Strike:    strike,
		Vesting:   vesting,
	}
}

// MarshalJSON implements the json.Marshaler interface for OptionGrant.
func (e OptionGrant) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("person", e.PersonID)
	w.Optional("name", e.Name)
	w.Optional("category", e.Category)
	w.Optional("shares", e.Shares)
	w.Optional("targetPercent", e.TargetPercent)
	w.Optional("strike", e.Strike)
	if e.Vesting != nil {
		w.Append("vesting", e.Vesting)
	}
	w.Optional("vestingStart", e.VestingStart)
	return w.MarshalJSON()
}

func (e OptionGrant) Equal(other Event) bool {
	o, ok := other.(OptionGrant)
	return ok && e.baseEvent == o.baseEvent && e.PersonID == o.PersonID && e.Name == o.Name &&
		e.Category == o.Category && e.Shares.Equal(o.Shares) &&
		e.TargetPercent.Equal(o.TargetPercent) && e.Strike.Equal(o.Strike) &&
		e.Vesting.equal(o.Vesting) && e.VestingStart == o.VestingStart
}

// Validate checks the OptionGrant event's fields and applies quick fixes:
// the category defaults to employee, the vesting start to the event date.
func (e OptionGrant) Validate() (Event, error) {
	base, err := e.baseEvent.validate()
	if err != nil {
		return e, err
	}
	e.baseEvent = base

	if e.PersonID == "" {
		return e, eventErr(e, ErrMalformed, "grant person id is missing")
	}
	if e.Shares.IsZero() && e.TargetPercent == 0 {
		return e, eventErr(e, ErrMalformed, "grant needs either shares or targetPercent")
	}
	if !e.Shares.IsZero() && e.TargetPercent != 0 {
		return e, eventErr(e, ErrMalformed, "grant cannot have both shares and targetPercent")
	}
	if e.Shares.IsNegative() || !e.Shares.IsWhole() {
		return e, eventErr(e, ErrMalformed, "grant shares must be a non-negative whole number, got %s", e.Shares)
	}
	if e.TargetPercent < 0 {
		return e, eventErr(e, ErrMalformed, "target percent must be non-negative, got %s", e.TargetPercent)
	}
	if e.TargetPercent >= 100 {
		return e, eventErr(e, ErrDomain, "target percent must be below 100%%, got %s", e.TargetPercent)
	}
	if e.Category == "" {
		e.Category = CategoryEmployee
	}
	if e.Vesting != nil {
		v := e.Vesting
		if v.TotalMonths <= 0 {
			return e, eventErr(e, ErrMalformed, "vesting totalMonths must be positive, got %d", v.TotalMonths)
		}
		if v.CliffMonths < 0 || v.CliffMonths > v.TotalMonths {
			return e, eventErr(e, ErrMalformed, "vesting cliffMonths must be in [0, totalMonths], got %d", v.CliffMonths)
		}
		if v.CliffPercent.IsNegative() || v.CliffPercent.GreaterThan(decimal.NewFromInt(100)) {
			return e, eventErr(e, ErrMalformed, "vesting cliffPercent must be in [0, 100], got %s", v.CliffPercent)
		}
		if v.FrequencyMonths < 0 {
			return e, eventErr(e, ErrMalformed, "vesting frequencyMonths must be non-negative, got %d", v.FrequencyMonths)
		}
	}
	if e.VestingStart.IsZero() {
		e.VestingStart = e.Date
	}
	return e, nil
}

// OptionExercise converts vested options into common shares.
type OptionExercise struct {
	baseEvent
	PersonID string   `json:"person"`
	Shares   Quantity `json:"shares"`
}

// NewOptionExercise creates a new OptionExercise event.
func NewOptionExercise(on Date, label, personID string, shares Quantity) OptionExercise {
	return OptionExercise{baseEvent: newBase(EvOptionExercise, on, label), PersonID: personID, Shares: shares}
}

// MarshalJSON implements the json.Marshaler interface for OptionExercise.
func (e OptionExercise) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("person", e.PersonID)
	w.Append("shares", e.Shares)
	return w.MarshalJSON()
}

func (e OptionExercise) Equal(other Event) bool {
	o, ok := other.(OptionExercise)
	return ok && e.baseEvent == o.baseEvent && e.PersonID == o.PersonID && e.Shares.Equal(o.Shares)
}

// Validate checks the OptionExercise event's fields.
func (e OptionExercise) Validate() (Event, error) {
	base, err := e.baseEvent.validate()
	if err != nil {
		return e, err
	}
	e.baseEvent = base

	if e.PersonID == "" {
		return e, eventErr(e, ErrMalformed, "exercise person id is missing")
	}
	if !e.Shares.IsPositive() || !e.Shares.IsWhole() {
		return e, eventErr(e, ErrMalformed, "exercise shares must be a positive whole number, got %s", e.Shares)
	}
	return e, nil
}
