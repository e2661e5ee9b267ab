package captable

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeLedger decodes events from a stream of JSONL data from an io.Reader,
// decodes each line into the appropriate event struct, and returns a sorted
// Ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Event EventType `json:"event"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify event in line %q: %w", string(lineBytes), err)
		}

		var decoded Event
		var err error

		switch identifier.Event {
		case EvIncorporation:
			var ev Incorporation
			err = json.Unmarshal(lineBytes, &ev)
			decoded = ev
		case EvPricedRound:
			var ev PricedRound
			err = json.Unmarshal(lineBytes, &ev)
			decoded = ev
		case EvSafeIssuance:
			var ev SafeIssuance
			err = json.Unmarshal(lineBytes, &ev)
			decoded = ev
		case EvPoolCreation:
			var ev PoolCreation
			err = json.Unmarshal(lineBytes, &ev)
			decoded = ev
		case EvPoolExtension:
			var ev PoolExtension
			err = json.Unmarshal(lineBytes, &ev)
			decoded = ev
		case EvOptionGrant:
			var ev OptionGrant
			err = json.Unmarshal(lineBytes, &ev)
			decoded = ev
		case EvOptionExercise:
			var ev OptionExercise
			err = json.Unmarshal(lineBytes, &ev)
			decoded = ev
		default:
			err = fmt.Errorf("unknown event type: %q", identifier.Event)
		}

		if err != nil {
			return nil, err
		}
		ledger.Append(decoded)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	// Perform a stable sort on the ledger based on the event date.
	ledger.stableSort()

	return ledger, nil
}

// EncodeEvent marshals a single event to JSON and writes it to the writer,
// followed by a newline, in JSONL format.
func EncodeEvent(w io.Writer, ev Event) error {
	decimal.MarshalJSONWithoutQuotes = true
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// EncodeLedger reorders events by date and persists them to an io.Writer in
// JSONL format. The sort is stable, so events on the same day keep their
// original relative order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	decimal.MarshalJSONWithoutQuotes = true

	ledger.stableSort()

	for _, ev := range ledger.events {
		if err := EncodeEvent(w, ev); err != nil {
			return err
		}
	}

	return nil
}
