package store

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/ssargent/pokecsv/pkg/codec"
)

const maxLineSize = 1024 * 1024

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	return scanner
}

// scanRawLines splits like bufio.ScanLines but keeps each line's terminator,
// so rewritten lines can be copied byte for byte
func scanRawLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// splitEOL separates a raw line from its "\n" or "\r\n" terminator
func splitEOL(raw string) (line, eol string) {
	line = strings.TrimSuffix(raw, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, raw[len(line):]
}

// csvRecordIterator decodes records lazily from an open store file
type csvRecordIterator struct {
	file    afero.File
	path    string
	scanner *bufio.Scanner
	codec   *codec.RecordCodec
	lineNo  int
	current *codec.Pokemon
	err     error
	closed  bool
}

func (it *csvRecordIterator) Next() bool {
	if it.closed || it.err != nil {
		return false
	}
	if !it.scanner.Scan() {
		it.err = it.scanner.Err()
		it.current = nil
		return false
	}
	it.lineNo++

	p, err := it.codec.Parse(it.scanner.Text())
	if err != nil {
		it.err = &LineError{Path: it.path, Line: it.lineNo, Err: err}
		it.current = nil
		return false
	}
	it.current = p
	return true
}

func (it *csvRecordIterator) Record() *codec.Pokemon {
	return it.current
}

func (it *csvRecordIterator) Err() error {
	return it.err
}

func (it *csvRecordIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.file.Close()
}
