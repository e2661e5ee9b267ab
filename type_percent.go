package captable

import "fmt"

// Percent is a percentage value in [0, 100] used by views and event payloads.
// Ownership math never runs on Percent directly; handlers convert to exact
// decimals first.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}
