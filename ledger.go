package captable

import (
	"iter"
	"sort"
)

// Ledger holds a company's corporate-finance events.
//
// In a Ledger events are always in chronological order; events sharing a
// date keep their original insertion order, recorded as an explicit sequence
// number rather than relying on sort stability.
type Ledger struct {
	events  []Event
	nextSeq int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{events: make([]Event, 0)}
}

// Append appends events to this ledger and maintains the chronological
// order. Events without a sequence number are stamped with the next one.
func (l *Ledger) Append(evs ...Event) {
	for _, ev := range evs {
		if ev.Seq() == 0 {
			l.nextSeq++
			ev = withSeq(ev, l.nextSeq)
		} else if ev.Seq() > l.nextSeq {
			l.nextSeq = ev.Seq()
		}
		l.events = append(l.events, ev)
	}
	l.stableSort()
}

// withSeq returns a copy of ev carrying the given sequence number.
func withSeq(ev Event, seq int) Event {
	switch v := ev.(type) {
	case Incorporation:
		v.Sequence = seq
		return v
	case PricedRound:
		v.Sequence = seq
		return v
	case SafeIssuance:
		v.Sequence = seq
		return v
	case PoolCreation:
		v.Sequence = seq
		return v
	case PoolExtension:
		v.Sequence = seq
		return v
	case OptionGrant:
		v.Sequence = seq
		return v
	case OptionExercise:
		v.Sequence = seq
		return v
	default:
		return ev
	}
}

// stableSort sorts the ledger by event date, breaking same-date ties on the
// sequence number.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.events, func(i, j int) bool {
		a, b := l.events[i], l.events[j]
		if a.When() != b.When() {
			return a.When().Before(b.When())
		}
		return a.Seq() < b.Seq()
	})
}

// Len returns the number of events in the ledger.
func (l *Ledger) Len() int { return len(l.events) }

// Events returns an iterator over events in chronological order.
func (l *Ledger) Events() iter.Seq2[int, Event] {
	return func(yield func(int, Event) bool) {
		for i, ev := range l.events {
			if !yield(i, ev) {
				return
			}
		}
	}
}

// Event returns the event at position i in chronological order.
func (l *Ledger) Event(i int) Event { return l.events[i] }

// OldestEventDate returns the date of the earliest event in the ledger,
// or the zero Date if the ledger is empty.
func (l *Ledger) OldestEventDate() Date {
	if len(l.events) == 0 {
		return Date{}
	}
	return l.events[0].When()
}

// NewestEventDate returns the date of the latest event in the ledger,
// or the zero Date if the ledger is empty.
func (l *Ledger) NewestEventDate() Date {
	if len(l.events) == 0 {
		return Date{}
	}
	return l.events[len(l.events)-1].When()
}

// Validate runs each event's Validate and returns a new ledger with the
// validated (and possibly quick-fixed) events, or the first error.
func (l *Ledger) Validate() (*Ledger, error) {
	out := NewLedger()
	for _, ev := range l.events {
		fixed, err := ev.Validate()
		if err != nil {
			return nil, err
		}
		out.Append(fixed)
	}
	return out, nil
}
