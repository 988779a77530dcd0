package codec

import (
	"fmt"
	"strings"
)

// FieldError describes one failed validation rule
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every rule a Pokemon failed
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return fmt.Sprintf("invalid pokemon: %s", strings.Join(msgs, "; "))
}

// Validate checks a Pokemon before it may be written to the store
func Validate(p *Pokemon) error {
	if p == nil {
		return &ValidationError{Fields: []FieldError{{Field: "pokemon", Message: "The Pokemon can't be empty"}}}
	}

	var fields []FieldError
	add := func(field, msg string) {
		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	if p.Number < 0 {
		add("number", "The Number can't be less than zero")
	}
	if strings.TrimSpace(p.Name) == "" {
		add("name", "The Name of the Pokemon can't be empty")
	}
	if strings.TrimSpace(p.Type1) == "" {
		add("type1", "The Type 1 of the Pokemon can't be empty")
	}

	stats := []struct {
		field string
		label string
		value int
	}{
		{"total", "total", p.Total},
		{"hp", "HP", p.HP},
		{"attack", "Attack", p.Attack},
		{"defense", "Defense", p.Defense},
		{"spAttack", "SpAttack", p.SpAttack},
		{"spDefense", "SpDefense", p.SpDefense},
		{"speed", "Speed", p.Speed},
		{"generation", "Generation", p.Generation},
	}
	for _, s := range stats {
		if s.value < 0 {
			add(s.field, fmt.Sprintf("The %s can't be less than zero", s.label))
		}
	}

	// A delimiter or line break inside a text column would corrupt the file
	for _, col := range [][2]string{{"name", p.Name}, {"type1", p.Type1}, {"type2", p.Type2}} {
		if strings.ContainsAny(col[1], Delimiter+"\r\n") {
			add(col[0], fmt.Sprintf("The %s can't contain commas or line breaks", col[0]))
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
