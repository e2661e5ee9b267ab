package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

// dilutedCmd holds the flags for the 'diluted' subcommand.
type dilutedCmd struct {
	date string
}

func (*dilutedCmd) Name() string     { return "diluted" }
func (*dilutedCmd) Synopsis() string { return "display the fully diluted cap table" }
func (*dilutedCmd) Usage() string {
	return `cpt diluted [-d <date>]

  Displays the fully diluted cap table: issued shares, option grants with
  their vesting progress at the given date, and the unallocated pool.
  Outstanding SAFEs are listed separately.
`
}

func (c *dilutedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date for the vesting split (defaults to today)")
}

func (c *dilutedCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	final, states, err := ReplayLedger()
	if err != nil {
		return fail(err)
	}
	state := final
	asOf := captable.Today()
	if c.date != "" {
		on, err := captable.ParseDate(c.date)
		if err != nil {
			return fail(err)
		}
		asOf = on
		if state = stateAsOf(states, on); state == nil {
			return fail(fmt.Errorf("no event on or before %s", on))
		}
	}
	printMarkdown(renderer.FullyDilutedMarkdown(captable.FullyDilutedCapTable(state, asOf)))
	return subcommands.ExitSuccess
}
