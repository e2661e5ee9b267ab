package captable

import (
	"testing"

	"github.com/shopspring/decimal"
)

// seriesACompany builds a company with 8,000,000 founder common shares and a
// 2,000,000-share preferred class issued at $1.00 with the given terms.
func seriesACompany(t *testing.T, participation ParticipationMode, capMultiple float64) *Company {
	t.Helper()
	incorporate := NewIncorporation(on("2024-01-15"), "", "Acme, Inc.", Q(8_000_000),
		[]FounderStake{{PersonID: "alice", Shares: Q(8_000_000)}}, nil)
	round := NewPricedRound(on("2025-03-01"), "Series A", "Series A",
		USD(8_000_000), PreMoney,
		[]RoundInvestment{{InvestorID: "vc", Amount: USD(2_000_000)}})
	round.Participation = participation
	if capMultiple != 0 {
		round.ParticipationCap = decimal.NewFromFloat(capMultiple)
	}
	final, _ := replayAll(t, incorporate, round)
	return final
}

// rowFor finds the payout row of a holder, failing the test when absent.
func rowFor(t *testing.T, w *Waterfall, id string) *WaterfallRow {
	t.Helper()
	for _, r := range w.Rows {
		if r.Holder == PersonHolder(id) {
			return r
		}
	}
	t.Fatalf("no waterfall row for %s", id)
	return nil
}

// checkConservation fails the test unless the rows plus the undistributed
// remainder add up to the exit value.
func checkConservation(t *testing.T, w *Waterfall) {
	t.Helper()
	sum := w.Undistributed
	for _, r := range w.Rows {
		if r.Proceeds.IsNegative() {
			t.Errorf("row %s has negative proceeds %v", r.Holder, r.Proceeds)
		}
		sum = sum.Add(r.Proceeds)
	}
	diff := sum.Decimal().Sub(w.ExitValue.Decimal()).Abs()
	if diff.GreaterThan(decimal.RequireFromString("0.01")) {
		t.Errorf("distributed %v of %v", sum.Decimal(), w.ExitValue.Decimal())
	}
}

func TestExitWaterfall_NonParticipatingConverts(t *testing.T) {
	// $20M exit, 2M of 10M shares preferred at $1.00 1x non-participating:
	// the $2M preference loses to the $4M as-converted value.
	c := seriesACompany(t, ParticipationNone, 0)
	w, err := ExitWaterfall(c, USD(20_000_000))
	if err != nil {
		t.Fatalf("ExitWaterfall() failed: %v", err)
	}
	vc := rowFor(t, w, "vc")
	if vc.Method != MethodConversion {
		t.Errorf("vc method = %s, want %s", vc.Method, MethodConversion)
	}
	checkMoney(t, "vc proceeds", vc.Proceeds, 4_000_000)
	checkMoney(t, "alice proceeds", rowFor(t, w, "alice").Proceeds, 16_000_000)
	if got := vc.Multiple; !got.Equal(decimal.NewFromInt(2)) {
		t.Errorf("vc multiple = %s, want 2", got)
	}
	checkConservation(t, w)
}

func TestExitWaterfall_NonParticipatingTakesPreference(t *testing.T) {
	// $5M exit: as-converted is only $1M, the $2M preference wins.
	c := seriesACompany(t, ParticipationNone, 0)
	w, err := ExitWaterfall(c, USD(5_000_000))
	if err != nil {
		t.Fatalf("ExitWaterfall() failed: %v", err)
	}
	vc := rowFor(t, w, "vc")
	if vc.Method != MethodPreference {
		t.Errorf("vc method = %s, want %s", vc.Method, MethodPreference)
	}
	checkMoney(t, "vc proceeds", vc.Proceeds, 2_000_000)
	checkMoney(t, "alice proceeds", rowFor(t, w, "alice").Proceeds, 3_000_000)
	checkConservation(t, w)
}

func TestExitWaterfall_PreferenceShortfallProRated(t *testing.T) {
	// $1M exit does not even cover the $2M preference.
	c := seriesACompany(t, ParticipationNone, 0)
	w, err := ExitWaterfall(c, USD(1_000_000))
	if err != nil {
		t.Fatalf("ExitWaterfall() failed: %v", err)
	}
	checkMoney(t, "vc proceeds", rowFor(t, w, "vc").Proceeds, 1_000_000)
	checkMoney(t, "alice proceeds", rowFor(t, w, "alice").Proceeds, 0)
	checkConservation(t, w)
}

func TestExitWaterfall_FullParticipation(t *testing.T) {
	// $12M exit: $2M preference, then the $10M residual pro rata over all
	// 10M shares.
	c := seriesACompany(t, ParticipationFull, 0)
	w, err := ExitWaterfall(c, USD(12_000_000))
	if err != nil {
		t.Fatalf("ExitWaterfall() failed: %v", err)
	}
	vc := rowFor(t, w, "vc")
	if vc.Method != MethodParticipating {
		t.Errorf("vc method = %s, want %s", vc.Method, MethodParticipating)
	}
	checkMoney(t, "vc proceeds", vc.Proceeds, 4_000_000)
	checkMoney(t, "alice proceeds", rowFor(t, w, "alice").Proceeds, 8_000_000)
	checkConservation(t, w)
}

func TestExitWaterfall_CappedParticipation(t *testing.T) {
	// $30M exit with a 2x cap: the $2M preference plus a $5.6M pro-rata
	// slice would be $7.6M, clamped to 2 * $2M = $4M. The clipped excess
	// is not re-cycled to common.
	c := seriesACompany(t, ParticipationCapped, 2)
	w, err := ExitWaterfall(c, USD(30_000_000))
	if err != nil {
		t.Fatalf("ExitWaterfall() failed: %v", err)
	}
	checkMoney(t, "vc proceeds", rowFor(t, w, "vc").Proceeds, 4_000_000)
	checkMoney(t, "alice proceeds", rowFor(t, w, "alice").Proceeds, 22_400_000)
	checkMoney(t, "undistributed", w.Undistributed, 3_600_000)
	checkConservation(t, w)
}

func TestExitWaterfall_ConvertsSafes(t *testing.T) {
	// A still-outstanding capped SAFE converts at exit: the $5M cap over
	// 10M shares implies $0.50, so $1M buys 2,000,000 common shares.
	safe := NewSafeIssuance(on("2024-06-01"), "",
		SafeTerms{SafeID: "s1", InvestorID: "carol", Principal: USD(1_000_000), Cap: USD(5_000_000)})
	c, _ := replayAll(t, incorporateAcme(), safe)

	w, err := ExitWaterfall(c, USD(24_000_000))
	if err != nil {
		t.Fatalf("ExitWaterfall() failed: %v", err)
	}
	carol := rowFor(t, w, "carol")
	checkShares(t, "carol shares", carol.Shares, 2_000_000)
	checkMoney(t, "carol proceeds", carol.Proceeds, 4_000_000) // 2M of 12M shares
	checkConservation(t, w)
}

func TestExitWaterfall_OptionsGetNothing(t *testing.T) {
	c, _ := replayAll(t, grantEvents()...)
	w, err := ExitWaterfall(c, USD(10_000_000))
	if err != nil {
		t.Fatalf("ExitWaterfall() failed: %v", err)
	}
	for _, r := range w.Rows {
		if r.Holder == PersonHolder("carol") || r.Holder.IsPool() {
			t.Errorf("unexpected waterfall row for %s", r.Holder)
		}
	}
	checkMoney(t, "alice proceeds", rowFor(t, w, "alice").Proceeds, 10_000_000)
	checkConservation(t, w)
}

func TestExitWaterfall_Errors(t *testing.T) {
	c, _ := replayAll(t, incorporateAcme())
	if _, err := ExitWaterfall(c, USD(0)); err == nil {
		t.Error("zero exit value succeeded, want error")
	}
	if _, err := ExitWaterfall(NewCompany(), USD(1_000_000)); err == nil {
		t.Error("empty company succeeded, want error")
	}
}
