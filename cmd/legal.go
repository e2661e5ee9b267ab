package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

// legalCmd holds the flags for the 'legal' subcommand.
type legalCmd struct {
	date string
}

func (*legalCmd) Name() string     { return "legal" }
func (*legalCmd) Synopsis() string { return "display the legal cap table (issued shares only)" }
func (*legalCmd) Usage() string {
	return `cpt legal [-d <date>]

  Displays the legal cap table: issued common and preferred shares, without
  option grants, the unallocated pool or unconverted SAFEs.
`
}

func (c *legalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the view (defaults to the latest event)")
}

func (c *legalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	final, states, err := ReplayLedger()
	if err != nil {
		return fail(err)
	}
	state := final
	if c.date != "" {
		on, err := captable.ParseDate(c.date)
		if err != nil {
			return fail(err)
		}
		if state = stateAsOf(states, on); state == nil {
			return fail(fmt.Errorf("no event on or before %s", on))
		}
	}
	printMarkdown(renderer.LegalMarkdown(captable.LegalCapTable(state)))
	return subcommands.ExitSuccess
}
