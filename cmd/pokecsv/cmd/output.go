package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ssargent/pokecsv/pkg/codec"
	"github.com/ssargent/pokecsv/pkg/store"
)

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reportOutcome prints the message for a store outcome. Outcomes that leave
// the store unchanged for a reason the caller should act on become errors.
func reportOutcome(w io.Writer, name string, outcome store.Outcome) error {
	switch outcome {
	case store.OutcomeOk:
		fmt.Fprintf(w, "Pokemon %s created\n", name)
	case store.OutcomeUpdated:
		fmt.Fprintf(w, "Pokemon %s updated\n", name)
	case store.OutcomeDeleted:
		fmt.Fprintf(w, "Pokemon %s deleted\n", name)
	case store.OutcomeEmpty:
		fmt.Fprintln(w, "CSV File was empty")
	case store.OutcomeExists:
		return fmt.Errorf("pokemon %s already exists", name)
	case store.OutcomeNotFound:
		return fmt.Errorf("pokemon %s was not found", name)
	default:
		return fmt.Errorf("store operation on %s failed", name)
	}
	return nil
}

// parseRecord parses and validates a CSV record line given on the command line
func parseRecord(line string) (*codec.Pokemon, error) {
	p, err := codec.NewRecordCodec().Parse(line)
	if err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}
	if err := codec.Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}
