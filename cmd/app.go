// Package cmd implements the CLI application to manage a cap table.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&legalCmd{}, "views")
	c.Register(&dilutedCmd{}, "views")
	c.Register(&evolutionCmd{}, "views")
	c.Register(&exitCmd{}, "views")

	c.Register(&fmtCmd{}, "ledger")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "captable.jsonl", "Path to the ledger file containing events (JSONL format)")

// DecodeLedger reads and validates the app ledger file.
func DecodeLedger() (*captable.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()

	ledger, err := captable.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not read ledger file %q: %w", *ledgerFile, err)
	}
	return ledger.Validate()
}

// ReplayLedger decodes the app ledger and replays it into cap-table state.
func ReplayLedger() (*captable.Company, []*captable.Company, error) {
	ledger, err := DecodeLedger()
	if err != nil {
		return nil, nil, err
	}
	return captable.Replay(ledger)
}

// stateAsOf returns the last snapshot on or before the given date, or nil if
// no event happened yet.
func stateAsOf(states []*captable.Company, on captable.Date) *captable.Company {
	var found *captable.Company
	for _, s := range states {
		if s.AsOfDate.After(on) {
			break
		}
		found = s
	}
	return found
}

// fail prints the error and returns the failure exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
