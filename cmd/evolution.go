package cmd

import (
	"context"
	"flag"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type evolutionCmd struct{}

func (*evolutionCmd) Name() string     { return "evolution" }
func (*evolutionCmd) Synopsis() string { return "display the ownership evolution across all events" }
func (*evolutionCmd) Usage() string {
	return `cpt evolution

  Displays each holder's fully diluted ownership percentage after every
  event in the ledger, as a dilution matrix.
`
}

func (*evolutionCmd) SetFlags(f *flag.FlagSet) {}

func (c *evolutionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	final, states, err := ReplayLedger()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.EvolutionMarkdown(final.Name, captable.OwnershipEvolution(states)))
	return subcommands.ExitSuccess
}
