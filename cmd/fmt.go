package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `cpt fmt

  Validates and formats the ledger file. This command reads all events,
  validates them, applies available quick-fixes (like generating missing
  identifiers), sorts them by date, and writes them back in a canonical
  JSONL format.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		return fail(err)
	}
	// Replay before writing anything back: a ledger that does not fold into
	// a valid state should not be canonicalized.
	if _, _, err := captable.Replay(ledger); err != nil {
		return fail(err)
	}

	out, err := os.Create(*ledgerFile)
	if err != nil {
		return fail(fmt.Errorf("could not write ledger file %q: %w", *ledgerFile, err))
	}
	defer out.Close()
	if err := captable.EncodeLedger(out, ledger); err != nil {
		return fail(err)
	}
	fmt.Fprintf(os.Stderr, "Formatted %d events in %q.\n", ledger.Len(), *ledgerFile)
	return subcommands.ExitSuccess
}
