// Package codec provides the line format of the pokecsv record store.
//
// Each record is one comma-delimited line with thirteen columns in a fixed
// order:
//
//	number,name,type1,type2,total,hp,attack,defense,spAttack,spDefense,speed,generation,legendary
//
// Columns 0 and 4 through 11 are integers, column 12 is the literal text
// "True" or "False" and the remaining columns are free text that may not
// contain the delimiter. Type2 may be empty. The first line of a store file is
// a header and is never decoded.
//
// # Round Trip
//
// For every Pokemon p that passes Validate:
//
//	c := codec.NewRecordCodec()
//	line := c.Format(p)
//	q, err := c.Parse(strings.TrimSuffix(line, codec.LineTerminator))
//	// err == nil and *q == *p
//
// # Keys
//
// Names are compared case-insensitively everywhere. Use KeyOf to obtain the
// folded Key of a name rather than lowercasing at the comparison site.
//
// # Error Handling
//
// Parse returns a *ParseError for a wrong column count or an unparsable
// integer or boolean column. Validate returns a *ValidationError listing every
// failed rule.
package codec
