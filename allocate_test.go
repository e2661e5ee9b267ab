package captable

import "testing"

func TestDistribute(t *testing.T) {
	testCases := []struct {
		name       string
		total      float64
		weights    []float64
		wantShares []float64
	}{
		{
			name:       "Founders 60/40 of 10M",
			total:      10_000_000,
			weights:    []float64{60, 40},
			wantShares: []float64{6_000_000, 4_000_000},
		},
		{
			name:       "Even three-way split with remainder",
			total:      100,
			weights:    []float64{1, 1, 1},
			wantShares: []float64{34, 33, 33}, // equal remainders, input order wins
		},
		{
			name:       "Largest remainder gets the leftover unit",
			total:      10,
			weights:    []float64{1, 2, 4}, // exact 1.428, 2.857, 5.714
			wantShares: []float64{1, 3, 6},
		},
		{
			name:       "Weights need not sum to 100",
			total:      1000,
			weights:    []float64{3, 1},
			wantShares: []float64{750, 250},
		},
		{
			name:       "Single recipient takes all",
			total:      7,
			weights:    []float64{12.5},
			wantShares: []float64{7},
		},
		{
			name:       "Zero total with zero weights",
			total:      0,
			weights:    []float64{0, 0},
			wantShares: []float64{0, 0},
		},
		{
			name:       "Zero-weight recipient gets nothing",
			total:      9,
			weights:    []float64{0, 3},
			wantShares: []float64{0, 9},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := make([]Share, len(tc.weights))
			for i, w := range tc.weights {
				in[i] = Share{ID: string(rune('a' + i)), Shares: Q(w)}
			}
			got, err := Distribute(Q(tc.total), in)
			if err != nil {
				t.Fatalf("Distribute() failed: %v", err)
			}
			sum := Q(0)
			for i, g := range got {
				checkShares(t, "share of "+g.ID, g.Shares, tc.wantShares[i])
				sum = sum.Add(g.Shares)
			}
			if !sum.Equal(Q(tc.total)) {
				t.Errorf("allocated sum = %s, want exactly %v", sum, tc.total)
			}
		})
	}
}

func TestDistribute_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		total   Quantity
		weights []Share
	}{
		{"Negative total", Q(-10), []Share{{ID: "a", Shares: Q(1)}}},
		{"Fractional total", Q(10.5), []Share{{ID: "a", Shares: Q(1)}}},
		{"No recipients", Q(10), nil},
		{"Negative weight", Q(10), []Share{{ID: "a", Shares: Q(-1)}}},
		{"All weights zero with nonzero total", Q(10), []Share{{ID: "a", Shares: Q(0)}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Distribute(tc.total, tc.weights); err == nil {
				t.Error("Distribute() succeeded, want error")
			}
		})
	}
}
