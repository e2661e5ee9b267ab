package captable

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEncodeDecodeLedger_Roundtrip(t *testing.T) {
	l := NewLedger()
	l.Append(
		incorporateAcme(),
		NewSafeIssuance(on("2024-06-01"), "pre-seed",
			SafeTerms{SafeID: "s1", InvestorID: "carol", Name: "Carol",
				Principal: USD(500_000), Cap: USD(5_000_000), Discount: decimal.NewFromInt(20)}),
		NewPoolCreation(on("2024-09-01"), "ESOP", PoolTerms{Percent: 10}),
		NewOptionGrant(on("2024-10-01"), "new hire", "dave", "Dave", Q(48_000), USD(0.10),
			&VestingTerms{CliffMonths: 12, TotalMonths: 48, CliffPercent: decimal.NewFromInt(25)}),
		NewPricedRound(on("2025-03-01"), "Series A", "Series A",
			USD(10_000_000), PreMoney,
			[]RoundInvestment{{InvestorID: "vc", Amount: USD(2_000_000)}}),
		NewOptionExercise(on("2026-11-01"), "", "dave", Q(10_000)),
		NewPoolExtension(on("2026-12-01"), "refresh", 15),
	)

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l); err != nil {
		t.Fatalf("EncodeLedger() failed: %v", err)
	}

	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatalf("DecodeLedger() failed: %v", err)
	}
	if decoded.Len() != l.Len() {
		t.Fatalf("decoded %d events, want %d", decoded.Len(), l.Len())
	}
	for i := range l.events {
		if !l.events[i].Equal(decoded.events[i]) {
			t.Errorf("event %d differs after roundtrip:\n got %#v\nwant %#v", i, decoded.events[i], l.events[i])
		}
	}
}

func TestDecodeLedger_HandwrittenLines(t *testing.T) {
	// Money fields accept a bare number, defaulting to USD.
	input := strings.Join([]string{
		`{"event":"incorporation","id":"e1","date":"2024-01-15","totalShares":10000000,"founders":[{"person":"alice","percent":60},{"person":"bob","percent":40}]}`,
		``,
		`{"event":"safe-issuance","id":"e2","date":"2024-06-01","safes":[{"safe":"s1","investor":"carol","principal":500000,"cap":5000000,"discount":20}]}`,
	}, "\n")

	l, err := DecodeLedger(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLedger() failed: %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("decoded %d events, want 2", l.Len())
	}
	final, _, err := Replay(l)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	checkShares(t, "alice", final.HolderShares(PersonHolder("alice")), 6_000_000)
	if s := final.Safe("s1"); s == nil || !s.Principal.Equal(USD(500_000)) {
		t.Errorf("safe s1 = %+v, want a $500,000 principal", s)
	}
}

func TestDecodeLedger_UnknownEvent(t *testing.T) {
	_, err := DecodeLedger(strings.NewReader(`{"event":"stock-split","id":"e1","date":"2024-01-15"}`))
	if err == nil {
		t.Fatal("DecodeLedger() succeeded on an unknown event type")
	}
}

func TestEncodeEvent_StableFieldOrder(t *testing.T) {
	ev := NewOptionExercise(on("2026-11-01"), "", "dave", Q(10_000))
	var a, b bytes.Buffer
	if err := EncodeEvent(&a, ev); err != nil {
		t.Fatalf("EncodeEvent() failed: %v", err)
	}
	if err := EncodeEvent(&b, ev); err != nil {
		t.Fatalf("EncodeEvent() failed: %v", err)
	}
	if a.String() != b.String() {
		t.Errorf("encodings differ:\n%s\n%s", a.String(), b.String())
	}
	if !strings.HasPrefix(a.String(), `{"event":"option-exercise"`) {
		t.Errorf("encoding does not lead with the event type: %s", a.String())
	}
}
