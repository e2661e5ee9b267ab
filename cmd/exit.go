package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

// exitCmd holds the flags for the 'exit' subcommand.
type exitCmd struct {
	value    string
	currency string
}

func (*exitCmd) Name() string     { return "exit" }
func (*exitCmd) Synopsis() string { return "simulate an exit waterfall at a given company value" }
func (*exitCmd) Usage() string {
	return `cpt exit -v <value> [-c <currency>]

  Simulates the sale of the company at the given value and displays how the
  proceeds distribute across liquidation preferences, participation rights
  and common shares.

Usage Examples:
# Distribution of a $50M sale.
$ cpt exit -v 50000000

`
}

func (c *exitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.value, "v", "", "Exit value of the company (required)")
	f.StringVar(&c.currency, "c", "USD", "Currency of the exit value")
}

func (c *exitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.value == "" {
		fmt.Println(c.Usage())
		return subcommands.ExitUsageError
	}
	value, err := captable.ParseMoney(c.value, c.currency)
	if err != nil {
		return fail(fmt.Errorf("invalid exit value %q: %w", c.value, err))
	}
	final, _, err := ReplayLedger()
	if err != nil {
		return fail(err)
	}
	w, err := captable.ExitWaterfall(final, value)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.WaterfallMarkdown(final.Name, w))
	return subcommands.ExitSuccess
}
