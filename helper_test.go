package captable

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// on is a helper for tests to create a date from a const string.
func on(s string) Date { return MustParseDate(s) }

// incorporateAcme returns an incorporation of 10,000,000 common shares split
// 60/40 between two founders, no pool.
func incorporateAcme() Incorporation {
	return NewIncorporation(on("2024-01-15"), "Incorporation", "Acme, Inc.",
		Q(10_000_000),
		[]FounderStake{
			{PersonID: "alice", Name: "Alice", Percent: 60},
			{PersonID: "bob", Name: "Bob", Percent: 40},
		}, nil)
}

// replayAll appends the events to a fresh ledger and replays it, failing the
// test on any error.
func replayAll(t *testing.T, evs ...Event) (*Company, []*Company) {
	t.Helper()
	l := NewLedger()
	l.Append(evs...)
	final, states, err := Replay(l)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	return final, states
}

// replayKind replays the events and returns the kind of the expected
// EventError, failing the test if the replay succeeds or fails differently.
func replayKind(t *testing.T, evs ...Event) ErrorKind {
	t.Helper()
	l := NewLedger()
	l.Append(evs...)
	_, _, err := Replay(l)
	if err == nil {
		t.Fatal("Replay() succeeded, want an event error")
	}
	var evErr *EventError
	if !errors.As(err, &evErr) {
		t.Fatalf("Replay() returned %T (%v), want *EventError", err, err)
	}
	return evErr.Kind
}

// checkShares fails the test unless got equals want.
func checkShares(t *testing.T, label string, got Quantity, want float64) {
	t.Helper()
	if !got.Equal(Q(want)) {
		t.Errorf("%s = %s, want %v", label, got, want)
	}
}

// checkMoney fails the test unless got is within a tenth of a cent of want.
func checkMoney(t *testing.T, label string, got Money, want float64) {
	t.Helper()
	diff := got.Decimal().Sub(decimal.NewFromFloat(want)).Abs()
	if diff.GreaterThan(decimal.RequireFromString("0.001")) {
		t.Errorf("%s = %v, want %v", label, got.Decimal(), want)
	}
}
