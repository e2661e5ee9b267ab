// Package renderer formats cap-table views as markdown reports.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/captable"
	md "github.com/nao1215/markdown"
)

// LegalMarkdown renders the legal (issued shares only) cap table.
func LegalMarkdown(t *captable.CapTable) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title("Legal Cap Table", t.Company))
	doc.PlainText(fmt.Sprintf("As of %s, %s issued shares.", t.AsOf, t.Total))

	// One column per issued share class, in class creation order.
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft},
		Header:    []string{"Holder", "Category"},
	}
	for _, class := range t.Classes {
		table.Alignment = append(table.Alignment, md.AlignRight)
		table.Header = append(table.Header, class)
	}
	table.Alignment = append(table.Alignment, md.AlignRight, md.AlignRight)
	table.Header = append(table.Header, "Total", "Ownership")

	for _, r := range t.Rows {
		row := []string{r.Name, string(r.Category)}
		for _, q := range r.ByClass {
			if q.IsZero() {
				row = append(row, "")
			} else {
				row = append(row, q.String())
			}
		}
		row = append(row, r.Shares.String(), r.Percent.String())
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)

	return doc.String()
}

// FullyDilutedMarkdown renders the fully diluted cap table, with the
// vested/unvested split on option rows and a section for the convertible
// notes still awaiting a priced round.
func FullyDilutedMarkdown(t *captable.CapTable) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title("Fully Diluted Cap Table", t.Company))
	doc.PlainText(fmt.Sprintf("As of %s, %s fully diluted shares.", t.AsOf, t.Total))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Holder", "Class", "Shares", "Vested", "Unvested", "Ownership"},
	}
	for _, r := range t.Rows {
		vested, unvested := "", ""
		if r.IsOption && !r.Holder.IsPool() {
			vested, unvested = r.Vested.String(), r.Unvested.String()
		}
		table.Rows = append(table.Rows, []string{
			r.Name,
			r.Class,
			r.Shares.String(),
			vested,
			unvested,
			r.Percent.String(),
		})
	}
	doc.Table(table)

	if len(t.Safes) > 0 {
		doc.H2("Outstanding SAFEs")
		safes := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"SAFE", "Investor", "Principal", "Cap", "Discount"},
		}
		for _, s := range t.Safes {
			valuationCap, discount := "", ""
			if !s.Cap.IsZero() {
				valuationCap = s.Cap.String()
			}
			if !s.Discount.IsZero() {
				discount = s.Discount.String() + "%"
			}
			safes.Rows = append(safes.Rows, []string{
				s.ID, s.InvestorID, s.Principal.String(), valuationCap, discount,
			})
		}
		doc.Table(safes)
		doc.PlainText("Share counts are unknown until a priced round converts them.")
	}

	return doc.String()
}

func title(report, company string) string {
	if company == "" {
		return report
	}
	return fmt.Sprintf("%s - %s", report, company)
}
