// Package service enforces the business rules around the CSV record store:
// the store file must exist, names stay unique, and store outcomes are
// reported to callers unchanged.
package service

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ssargent/pokecsv/pkg/codec"
	"github.com/ssargent/pokecsv/pkg/store"
)

// Errors
var (
	ErrStoreUnavailable = errors.New("the CSV file was not found")
	ErrInvalidPage      = errors.New("page number and page size must be at least 1")
)

// Config holds the explicit configuration of a PokemonService
type Config struct {
	Fs        afero.Fs    // Filesystem holding the store (defaults to the OS filesystem)
	StorePath string      // Path of the CSV store file
	Logger    *zap.Logger // Optional logger
}

// Page is one window of a paginated listing
type Page struct {
	PageNumber   int              `json:"pageNumber"`
	PageSize     int              `json:"numberRowsPerPage"`
	TotalPages   int64            `json:"totalPages"`
	TotalRecords int64            `json:"totalRecords"`
	Items        []*codec.Pokemon `json:"items"`
}

// PokemonService wraps the record store with the consistency rules
type PokemonService struct {
	mu     sync.RWMutex
	fs     afero.Fs
	store  *store.CSVStore
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// NewPokemonService creates a service over the configured store path. The
// file does not have to exist yet; every operation checks for it.
func NewPokemonService(config Config) (*PokemonService, error) {
	fs := config.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &PokemonService{
		fs:     fs,
		logger: logger,
		sugar:  logger.Sugar(),
	}

	csvStore, err := s.newStore(config.StorePath)
	if err != nil {
		return nil, err
	}
	s.store = csvStore

	return s, nil
}

func (s *PokemonService) newStore(path string) (*store.CSVStore, error) {
	return store.NewCSVStore(store.CSVStoreConfig{
		Fs:     s.fs,
		Path:   path,
		Logger: s.logger,
	})
}

// StorePath returns the active CSV path
func (s *PokemonService) StorePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Path()
}

// activeStore returns the current store after checking its file exists
func (s *PokemonService) activeStore() (*store.CSVStore, error) {
	s.mu.RLock()
	csvStore := s.store
	s.mu.RUnlock()

	ok, err := s.isFile(csvStore.Path())
	if err != nil {
		return nil, err
	}
	if !ok {
		s.sugar.Warnw("store file does not exist", "path", csvStore.Path())
		return nil, ErrStoreUnavailable
	}
	return csvStore, nil
}

func (s *PokemonService) isFile(path string) (bool, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat store: %w", err)
	}
	return !info.IsDir(), nil
}

// Get returns the record with the given name, or store.ErrRecordNotFound
func (s *PokemonService) Get(name string) (*codec.Pokemon, error) {
	csvStore, err := s.activeStore()
	if err != nil {
		return nil, err
	}

	s.sugar.Infow("starting the search of pokemon by name", "name", name)
	return csvStore.FindByName(name)
}

// ListPaginated returns the requested page, or nil when the page lies past
// the last one
func (s *PokemonService) ListPaginated(pageNumber, pageSize int) (*Page, error) {
	csvStore, err := s.activeStore()
	if err != nil {
		return nil, err
	}

	total, err := csvStore.CountRecords()
	if err != nil {
		return nil, err
	}

	startingRow, inRange, err := PlanPage(total, pageNumber, pageSize)
	if err != nil {
		return nil, err
	}
	if !inRange {
		s.sugar.Warnw("the page asked is greater than the total number of pages",
			"pageNumber", pageNumber, "pageSize", pageSize, "totalRecords", total)
		return nil, nil
	}

	items, err := csvStore.ListPage(startingRow, pageSize)
	if err != nil {
		return nil, err
	}

	return &Page{
		PageNumber:   pageNumber,
		PageSize:     pageSize,
		TotalPages:   TotalPages(total, pageSize),
		TotalRecords: total,
		Items:        items,
	}, nil
}

// Add appends a new record unless its name is already taken
func (s *PokemonService) Add(p *codec.Pokemon) (store.Outcome, error) {
	csvStore, err := s.activeStore()
	if err != nil {
		return store.OutcomeError, err
	}

	taken, err := csvStore.Exists(p.Name)
	if err != nil {
		return store.OutcomeError, err
	}
	if taken {
		return store.OutcomeExists, nil
	}

	if err := csvStore.Append(p); err != nil {
		s.sugar.Errorw("failed to append pokemon", "name", p.Name, "error", err)
		return store.OutcomeError, err
	}

	s.sugar.Infow("pokemon created", "name", p.Name)
	return store.OutcomeOk, nil
}

// Modify replaces the record named originalName with p. Renaming onto a name
// held by another record is rejected before the store is touched.
func (s *PokemonService) Modify(originalName string, p *codec.Pokemon) (store.Outcome, error) {
	csvStore, err := s.activeStore()
	if err != nil {
		return store.OutcomeError, err
	}

	if codec.KeyOf(originalName) != p.Key() {
		taken, err := csvStore.Exists(p.Name)
		if err != nil {
			return store.OutcomeError, err
		}
		if taken {
			return store.OutcomeExists, nil
		}
	}

	outcome, err := csvStore.Rewrite(originalName, p, false)
	if err != nil {
		return store.OutcomeError, err
	}

	s.sugar.Infow("pokemon modification finished", "originalName", originalName, "outcome", outcome.String())
	return outcome, nil
}

// Delete removes the record named originalName
func (s *PokemonService) Delete(originalName string) (store.Outcome, error) {
	csvStore, err := s.activeStore()
	if err != nil {
		return store.OutcomeError, err
	}

	outcome, err := csvStore.Rewrite(originalName, nil, true)
	if err != nil {
		return store.OutcomeError, err
	}

	s.sugar.Infow("pokemon deletion finished", "name", originalName, "outcome", outcome.String())
	return outcome, nil
}

// ConfigureStorePath points the service at another CSV file. The path must
// name an existing regular file; otherwise the active store is kept and
// OutcomeNotFound is returned.
func (s *PokemonService) ConfigureStorePath(path string) (store.Outcome, error) {
	if path == "" {
		return store.OutcomeNotFound, nil
	}

	ok, err := s.isFile(path)
	if err != nil {
		return store.OutcomeError, err
	}
	if !ok {
		s.sugar.Infow("the file specified doesn't exist", "path", path)
		return store.OutcomeNotFound, nil
	}

	csvStore, err := s.newStore(path)
	if err != nil {
		return store.OutcomeError, err
	}

	s.mu.Lock()
	s.store = csvStore
	s.mu.Unlock()

	s.sugar.Infow("csv file path configured", "path", path)
	return store.OutcomeOk, nil
}
