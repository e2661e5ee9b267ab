package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/captable"
	md "github.com/nao1215/markdown"
)

// WaterfallMarkdown renders an exit distribution, one row per claim in
// payout order.
func WaterfallMarkdown(company string, w *captable.Waterfall) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title("Exit Waterfall", company))
	doc.PlainText(fmt.Sprintf("Distribution of %s.", w.ExitValue))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Holder", "Class", "Method", "Shares", "Proceeds", "Share", "Multiple"},
	}
	for _, r := range w.Rows {
		multiple := ""
		if !r.Multiple.IsZero() {
			multiple = r.Multiple.Round(2).String() + "x"
		}
		table.Rows = append(table.Rows, []string{
			r.Holder.String(),
			r.Class,
			string(r.Method),
			r.Shares.String(),
			r.Proceeds.String(),
			r.Percent.String(),
			multiple,
		})
	}
	doc.Table(table)

	if w.Undistributed.IsPositive() {
		doc.PlainText(fmt.Sprintf("Undistributed (participation caps): %s.", w.Undistributed))
	}

	return doc.String()
}
