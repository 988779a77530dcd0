package store

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ssargent/pokecsv/pkg/codec"
)

// CSVStoreConfig holds configuration for the CSV record store
type CSVStoreConfig struct {
	Fs     afero.Fs    // Filesystem holding the store file (defaults to the OS filesystem)
	Path   string      // Path of the CSV file
	Logger *zap.Logger // Optional logger
}

// RecordIterator provides streaming access to records. It is finite and can
// only be consumed once.
type RecordIterator interface {
	Next() bool
	Record() *codec.Pokemon
	Err() error
	Close() error
}

// Outcome is the result of a store-mutating call. Expected business branches
// are reported as outcomes, never as errors.
type Outcome int

const (
	OutcomeOk Outcome = iota
	OutcomeExists
	OutcomeUpdated
	OutcomeDeleted
	OutcomeNotFound
	OutcomeEmpty
	OutcomeError
)

var outcomeNames = [...]string{
	OutcomeOk:       "Ok",
	OutcomeExists:   "Exists",
	OutcomeUpdated:  "Updated",
	OutcomeDeleted:  "Deleted",
	OutcomeNotFound: "NotFound",
	OutcomeEmpty:    "Empty",
	OutcomeError:    "Error",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// MarshalText renders the outcome by name in JSON and logs
func (o Outcome) MarshalText() ([]byte, error) {
	if o < 0 || int(o) >= len(outcomeNames) {
		return nil, fmt.Errorf("unknown outcome %d", int(o))
	}
	return []byte(outcomeNames[o]), nil
}

// Errors
var (
	ErrRecordNotFound = &StoreError{"record not found"}
	ErrNoReplacement  = &StoreError{"replacement record is required"}
)

// StoreError represents a record store error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

// LineError locates a malformed line within the store file
type LineError struct {
	Path string
	Line int // 1-based, the header is line 1
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
