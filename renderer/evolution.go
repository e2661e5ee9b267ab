package renderer

import (
	"bytes"

	"github.com/etnz/captable"
	md "github.com/nao1215/markdown"
)

// EvolutionMarkdown renders the ownership history as a matrix: one row per
// event, one column per holder, cells holding the fully diluted percentage.
// Holders enter the table in first-appearance order, so a column reads as
// that holder's dilution over time.
func EvolutionMarkdown(company string, points []captable.EvolutionPoint) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title("Ownership Evolution", company))

	// The last point holds the complete holder list.
	var holders []captable.Stake
	if len(points) > 0 {
		holders = points[len(points)-1].Stakes
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"Date", "Event", "Fully Diluted"},
	}
	for _, h := range holders {
		table.Alignment = append(table.Alignment, md.AlignRight)
		table.Header = append(table.Header, h.Name)
	}

	for _, p := range points {
		row := []string{p.Date.String(), p.Label, p.FullyDiluted.String()}
		byHolder := make(map[captable.Holder]captable.Percent, len(p.Stakes))
		for _, s := range p.Stakes {
			byHolder[s.Holder] = s.Percent
		}
		for _, h := range holders {
			if pct, ok := byHolder[h.Holder]; ok {
				row = append(row, pct.String())
			} else {
				row = append(row, "")
			}
		}
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)

	return doc.String()
}
