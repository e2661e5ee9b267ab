package captable

import "testing"

func TestLegalCapTable(t *testing.T) {
	c, _ := replayAll(t, grantEvents()...)
	legal := LegalCapTable(c)

	// The option class carries no legal column.
	if len(legal.Classes) != 1 || legal.Classes[0] != "Common" {
		t.Fatalf("classes = %v, want [Common]", legal.Classes)
	}
	// The grant and the pool are options: legally alice owns everything.
	if len(legal.Rows) != 1 {
		t.Fatalf("got %d rows, want 1: %+v", len(legal.Rows), legal.Rows)
	}
	row := legal.Rows[0]
	if row.Holder != PersonHolder("alice") {
		t.Errorf("row holder = %v, want alice", row.Holder)
	}
	checkShares(t, "alice", row.Shares, 9_000_000)
	checkShares(t, "alice common", row.ByClass[0], 9_000_000)
	if !row.Percent.Equal(100) {
		t.Errorf("alice percent = %s, want 100%%", row.Percent)
	}
	checkShares(t, "total", legal.Total, 9_000_000)
}

func TestLegalCapTable_OneRowPerHolder(t *testing.T) {
	// Alice's SAFE converts in the round: she ends up holding common and
	// Series A, still as a single row with a count per class.
	safe := NewSafeIssuance(on("2024-06-01"), "",
		SafeTerms{SafeID: "s1", InvestorID: "alice", Principal: USD(500_000), Cap: USD(5_000_000)})
	round := NewPricedRound(on("2025-03-01"), "Series A", "Series A",
		USD(10_000_000), PreMoney,
		[]RoundInvestment{{InvestorID: "vc", Amount: USD(1_000_000)}})
	c, _ := replayAll(t, incorporateAcme(), safe, round)
	legal := LegalCapTable(c)

	if len(legal.Classes) != 2 || legal.Classes[0] != "Common" || legal.Classes[1] != "Series A" {
		t.Fatalf("classes = %v, want [Common Series A]", legal.Classes)
	}
	var alice *CapTableRow
	rows := 0
	for i := range legal.Rows {
		if legal.Rows[i].Holder == PersonHolder("alice") {
			alice = &legal.Rows[i]
			rows++
		}
	}
	if rows != 1 {
		t.Fatalf("alice has %d rows, want 1: %+v", rows, legal.Rows)
	}
	// $10M pre-money over 10M shares prices at $1.00; the $5M cap halves
	// it, so alice's $500,000 note buys 1,000,000 Series A shares.
	checkShares(t, "alice common", alice.ByClass[0], 6_000_000)
	checkShares(t, "alice series a", alice.ByClass[1], 1_000_000)
	checkShares(t, "alice total", alice.Shares, 7_000_000)
	checkShares(t, "total", legal.Total, 12_000_000)
}

func TestFullyDilutedCapTable(t *testing.T) {
	c, _ := replayAll(t, grantEvents()...)
	// Month 24: half of carol's 48,000 grant is vested.
	fd := FullyDilutedCapTable(c, on("2026-02-01"))

	checkShares(t, "total", fd.Total, 10_000_000)
	var alice, carol, pool *CapTableRow
	for i := range fd.Rows {
		switch {
		case fd.Rows[i].Holder == PersonHolder("alice"):
			alice = &fd.Rows[i]
		case fd.Rows[i].Holder == PersonHolder("carol"):
			carol = &fd.Rows[i]
		case fd.Rows[i].Holder.IsPool():
			pool = &fd.Rows[i]
		}
	}
	if alice == nil || carol == nil || pool == nil {
		t.Fatalf("missing rows in %+v", fd.Rows)
	}
	checkShares(t, "alice", alice.Shares, 9_000_000)
	checkShares(t, "carol", carol.Shares, 48_000)
	checkShares(t, "carol vested", carol.Vested, 24_000)
	checkShares(t, "carol unvested", carol.Unvested, 24_000)
	checkShares(t, "pool", pool.Shares, 952_000)
	if !carol.IsOption {
		t.Error("carol's row is not flagged as options")
	}
	if !alice.Percent.Equal(90) {
		t.Errorf("alice percent = %s, want 90%%", alice.Percent)
	}
}

func TestFullyDilutedCapTable_ListsOutstandingSafes(t *testing.T) {
	safe := NewSafeIssuance(on("2024-06-01"), "",
		SafeTerms{SafeID: "s1", InvestorID: "carol", Principal: USD(500_000), Cap: USD(5_000_000)})
	c, _ := replayAll(t, incorporateAcme(), safe)

	fd := FullyDilutedCapTable(c, on("2024-12-31"))
	if len(fd.Safes) != 1 || fd.Safes[0].ID != "s1" {
		t.Fatalf("Safes = %+v, want the outstanding s1", fd.Safes)
	}
	// An unconverted note must not count as shares.
	checkShares(t, "total", fd.Total, 10_000_000)
}

func TestOwnershipEvolution(t *testing.T) {
	round := NewPricedRound(on("2025-03-01"), "Series A", "Series A",
		USD(10_000_000), PreMoney,
		[]RoundInvestment{{InvestorID: "vc", Amount: USD(2_500_000)}})
	_, states := replayAll(t, incorporateAcme(), round)

	points := OwnershipEvolution(states)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}

	first := points[0]
	if first.Label != "Incorporation" {
		t.Errorf("first point label = %q, want the event label", first.Label)
	}
	if len(first.Stakes) != 2 {
		t.Fatalf("first point has %d stakes, want 2", len(first.Stakes))
	}
	if !first.Stakes[0].Percent.Equal(60) || !first.Stakes[1].Percent.Equal(40) {
		t.Errorf("initial stakes = %s/%s, want 60%%/40%%", first.Stakes[0].Percent, first.Stakes[1].Percent)
	}

	// $10M pre-money prices at $1.00: 2.5M new shares dilute the founders
	// to 48%/32% and the investor holds 20%.
	last := points[1]
	if last.Label != "Series A" {
		t.Errorf("last point label = %q, want the event label", last.Label)
	}
	if len(last.Stakes) != 3 {
		t.Fatalf("last point has %d stakes, want 3", len(last.Stakes))
	}
	// First-appearance order is stable: alice, bob, then the newcomer.
	if last.Stakes[0].Holder != PersonHolder("alice") || last.Stakes[2].Holder != PersonHolder("vc") {
		t.Errorf("stake order = %v", last.Stakes)
	}
	if !last.Stakes[0].Percent.Equal(48) || !last.Stakes[2].Percent.Equal(20) {
		t.Errorf("diluted stakes = %s/%s, want 48%%/20%%", last.Stakes[0].Percent, last.Stakes[2].Percent)
	}
}

func TestOwnershipEvolution_ExcludesPool(t *testing.T) {
	_, states := replayAll(t, grantEvents()...)
	for _, p := range OwnershipEvolution(states) {
		for _, s := range p.Stakes {
			if s.Holder.IsPool() {
				t.Fatal("the pool is not an owner and must not carry a stake")
			}
		}
	}
}
