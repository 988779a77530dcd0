package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ssargent/pokecsv/pkg/codec"
)

// CSVStore is a record store backed by a single CSV file: one header line
// followed by one line per record. No handle is kept open between calls.
type CSVStore struct {
	fs    afero.Fs
	path  string
	codec *codec.RecordCodec
	sugar *zap.SugaredLogger
}

// NewCSVStore creates a store over the configured path. The file itself is
// not touched until the first operation.
func NewCSVStore(config CSVStoreConfig) (*CSVStore, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	fs := config.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CSVStore{
		fs:    fs,
		path:  config.Path,
		codec: codec.NewRecordCodec(),
		sugar: logger.Sugar().With("store", config.Path),
	}, nil
}

// Path returns the CSV file path
func (s *CSVStore) Path() string {
	return s.path
}

// CountRecords counts the data lines after the header
func (s *CSVStore) CountRecords() (int64, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open store: %w", err)
	}
	defer f.Close()

	scanner := newLineScanner(f)
	var lines int64
	for scanner.Scan() {
		lines++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read store: %w", err)
	}
	if lines == 0 {
		return 0, nil
	}
	return lines - 1, nil
}

// Scan opens an iterator over the records, skipping the header and then
// startingRow data lines. Skipped lines are not decoded. The caller must
// Close the iterator.
func (s *CSVStore) Scan(startingRow int) (RecordIterator, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	scanner := newLineScanner(f)
	skipped := 0
	for skipped < startingRow+1 && scanner.Scan() {
		skipped++
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	return &csvRecordIterator{
		file:    f,
		path:    s.path,
		scanner: scanner,
		codec:   s.codec,
		lineNo:  skipped,
	}, nil
}

// maxPagePrealloc bounds the slice capacity reserved up front for a page
const maxPagePrealloc = 256

// ListPage returns up to pageSize records after skipping startingRow data lines
func (s *CSVStore) ListPage(startingRow, pageSize int) ([]*codec.Pokemon, error) {
	it, err := s.Scan(startingRow)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	records := make([]*codec.Pokemon, 0, min(pageSize, maxPagePrealloc))
	for len(records) < pageSize && it.Next() {
		records = append(records, it.Record())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// FindByName returns the first record whose name matches case-insensitively,
// or ErrRecordNotFound
func (s *CSVStore) FindByName(name string) (*codec.Pokemon, error) {
	it, err := s.Scan(0)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	key := codec.KeyOf(name)
	for it.Next() {
		if p := it.Record(); p.Key() == key {
			return p, nil
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return nil, ErrRecordNotFound
}

// Exists reports whether a record with the given name is present
func (s *CSVStore) Exists(name string) (bool, error) {
	_, err := s.FindByName(name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrRecordNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Append writes one record at the end of the file. It does not check for
// duplicates.
func (s *CSVStore) Append(p *codec.Pokemon) error {
	unlock := lockPath(s.path)
	defer unlock()

	f, err := s.fs.OpenFile(s.path, os.O_RDWR|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("failed to open store for append: %w", err)
	}
	defer f.Close()

	line := s.codec.Format(p)

	// Keep the new record off the previous line when the file lacks a final newline
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat store: %w", err)
	}
	size := info.Size()
	if size == 0 {
		line = codec.Header + codec.LineTerminator + line
	} else {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil && err != io.EOF {
			return fmt.Errorf("failed to read store tail: %w", err)
		}
		if last[0] != '\n' {
			line = codec.LineTerminator + line
		}
	}

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync store: %w", err)
	}

	s.sugar.Debugw("appended record", "name", p.Name)
	return f.Close()
}

// Rewrite copies the store into a temporary file, replacing (or, with remove
// set, omitting) the line whose name matches targetName, then atomically
// renames the copy over the original. The copy is discarded when the store
// holds no records.
func (s *CSVStore) Rewrite(targetName string, replacement *codec.Pokemon, remove bool) (Outcome, error) {
	if !remove && replacement == nil {
		return OutcomeError, ErrNoReplacement
	}

	unlock := lockPath(s.path)
	defer unlock()

	src, err := s.fs.Open(s.path)
	if err != nil {
		return OutcomeError, fmt.Errorf("failed to open store: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return OutcomeError, fmt.Errorf("failed to stat store: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, filepath.Dir(s.path), ".pokecsv-*")
	if err != nil {
		return OutcomeError, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		tmp.Close()
		if !committed {
			s.fs.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	writeLine := func(line string) error {
		if _, err := w.WriteString(line); err != nil {
			return fmt.Errorf("failed to write temp file: %w", err)
		}
		return nil
	}

	scanner := newLineScanner(src)
	scanner.Split(scanRawLines)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return OutcomeError, fmt.Errorf("failed to read store: %w", err)
		}
		return OutcomeEmpty, nil
	}
	if header, _ := splitEOL(scanner.Text()); header == "" {
		return OutcomeEmpty, nil
	}
	if err := writeLine(scanner.Text()); err != nil {
		return OutcomeError, err
	}

	// Replaced lines keep the terminator of the line they overwrite
	format := func(p *codec.Pokemon, eol string) string {
		return strings.TrimSuffix(s.codec.Format(p), codec.LineTerminator) + eol
	}

	target := codec.KeyOf(targetName)
	outcome := OutcomeNotFound
	lineNo, records := 1, 0

	for scanner.Scan() {
		raw := scanner.Text()
		line, eol := splitEOL(raw)
		lineNo++
		records++

		name, err := codec.NameOf(line)
		if err != nil {
			return OutcomeError, &LineError{Path: s.path, Line: lineNo, Err: err}
		}

		out := raw
		switch {
		case !target.Matches(name):
		case remove:
			outcome = OutcomeDeleted
			continue
		case replacement.Key() == target:
			out = format(replacement, eol)
			outcome = OutcomeUpdated
		default:
			taken, err := s.Exists(replacement.Name)
			if err != nil {
				return OutcomeError, err
			}
			if taken {
				outcome = OutcomeExists
			} else {
				out = format(replacement, eol)
				outcome = OutcomeUpdated
			}
		}

		if err := writeLine(out); err != nil {
			return OutcomeError, err
		}
	}
	if err := scanner.Err(); err != nil {
		return OutcomeError, fmt.Errorf("failed to read store: %w", err)
	}

	if records == 0 {
		s.sugar.Debugw("rewrite skipped, store has no records", "target", targetName)
		return OutcomeEmpty, nil
	}

	if err := w.Flush(); err != nil {
		return OutcomeError, fmt.Errorf("failed to flush temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return OutcomeError, fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return OutcomeError, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := src.Close(); err != nil {
		return OutcomeError, fmt.Errorf("failed to close store: %w", err)
	}
	if err := s.fs.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return OutcomeError, fmt.Errorf("failed to set temp file mode: %w", err)
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		return OutcomeError, fmt.Errorf("failed to replace store: %w", err)
	}
	committed = true

	s.sugar.Debugw("rewrote store", "target", targetName, "delete", remove, "outcome", outcome.String())
	return outcome, nil
}
