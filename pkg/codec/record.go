package codec

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Delimiter separates columns on a record line
	Delimiter = ","
	// LineTerminator ends every formatted record line
	LineTerminator = "\n"
	// FieldCount is the number of columns in a record line
	FieldCount = 13
	// NameColumn is the index of the name column, the store's unique key
	NameColumn = 1
)

// Header is the header line written when a new store file is created
const Header = "#,Name,Type 1,Type 2,Total,HP,Attack,Defense,Sp. Atk,Sp. Def,Speed,Generation,Legendary"

// Pokemon is a single record of the store
type Pokemon struct {
	Number     int    `json:"number"`
	Name       string `json:"name"`
	Type1      string `json:"type1"`
	Type2      string `json:"type2"`
	Total      int    `json:"total"`
	HP         int    `json:"hp"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	SpAttack   int    `json:"spAttack"`
	SpDefense  int    `json:"spDefense"`
	Speed      int    `json:"speed"`
	Generation int    `json:"generation"`
	Legendary  bool   `json:"legendary"`
}

// Key returns the case-insensitive key of the record's name
func (p *Pokemon) Key() Key {
	return KeyOf(p.Name)
}

// ParseError reports a line that cannot be decoded into a Pokemon
type ParseError struct {
	Column int    // Offending column, -1 when the column count is wrong
	Value  string // Offending text
	Err    error  // Underlying conversion error, if any
}

func (e *ParseError) Error() string {
	if e.Column < 0 {
		return fmt.Sprintf("malformed record: expected %d fields, got %q", FieldCount, e.Value)
	}
	return fmt.Sprintf("malformed record: column %d value %q: %v", e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RecordCodec converts between record lines and Pokemon values
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// Parse decodes a single line (without its terminator) into a Pokemon
// Format: number,name,type1,type2,total,hp,attack,defense,spAttack,spDefense,speed,generation,legendary
func (c *RecordCodec) Parse(line string) (*Pokemon, error) {
	parts := strings.Split(line, Delimiter)
	if len(parts) != FieldCount {
		return nil, &ParseError{Column: -1, Value: line}
	}

	ints := make([]int, FieldCount)
	for _, i := range []int{0, 4, 5, 6, 7, 8, 9, 10, 11} {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return nil, &ParseError{Column: i, Value: parts[i], Err: err}
		}
		ints[i] = v
	}

	legendary, err := parseBool(parts[12])
	if err != nil {
		return nil, &ParseError{Column: 12, Value: parts[12], Err: err}
	}

	return &Pokemon{
		Number:     ints[0],
		Name:       parts[1],
		Type1:      parts[2],
		Type2:      parts[3],
		Total:      ints[4],
		HP:         ints[5],
		Attack:     ints[6],
		Defense:    ints[7],
		SpAttack:   ints[8],
		SpDefense:  ints[9],
		Speed:      ints[10],
		Generation: ints[11],
		Legendary:  legendary,
	}, nil
}

// Format encodes a Pokemon into a terminated record line
func (c *RecordCodec) Format(p *Pokemon) string {
	var b strings.Builder
	b.Grow(64)

	fields := []string{
		strconv.Itoa(p.Number),
		p.Name,
		p.Type1,
		p.Type2,
		strconv.Itoa(p.Total),
		strconv.Itoa(p.HP),
		strconv.Itoa(p.Attack),
		strconv.Itoa(p.Defense),
		strconv.Itoa(p.SpAttack),
		strconv.Itoa(p.SpDefense),
		strconv.Itoa(p.Speed),
		strconv.Itoa(p.Generation),
		formatBool(p.Legendary),
	}
	b.WriteString(strings.Join(fields, Delimiter))
	b.WriteString(LineTerminator)

	return b.String()
}

// NameOf extracts the raw name column from a line without decoding the rest
func NameOf(line string) (string, error) {
	parts := strings.SplitN(line, Delimiter, NameColumn+2)
	if len(parts) <= NameColumn {
		return "", &ParseError{Column: -1, Value: line}
	}
	return parts[NameColumn], nil
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
