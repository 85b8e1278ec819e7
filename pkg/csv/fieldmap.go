package csv

import (
	"strconv"
)

// ColumnRef identifies a source column either by header name or by
// zero-based position.
type ColumnRef struct {
	name       string
	index      int
	positional bool
}

// Name refers to the first header entry equal to name.
func Name(name string) ColumnRef {
	return ColumnRef{name: name}
}

// Index refers to the column at zero-based position i.
func Index(i int) ColumnRef {
	return ColumnRef{index: i, positional: true}
}

// ParseColumnRef turns user input into a reference: a decimal integer is a
// position, anything else a header name.
func ParseColumnRef(s string) ColumnRef {
	if i, err := strconv.Atoi(s); err == nil && i >= 0 {
		return Index(i)
	}
	return Name(s)
}

// IsIndex reports whether the reference is positional.
func (c ColumnRef) IsIndex() bool {
	return c.positional
}

func (c ColumnRef) String() string {
	if c.positional {
		return "#" + strconv.Itoa(c.index)
	}
	return strconv.Quote(c.name)
}

// resolve returns the column position in header, or false.
func (c ColumnRef) resolve(header Header) (int, bool) {
	if c.positional {
		return c.index, c.index >= 0 && c.index < len(header)
	}
	i := header.Index(c.name)
	return i, i >= 0
}

// FieldMapping is one output field of a FieldMap.
type FieldMapping struct {
	Name   string
	Source ColumnRef
}

// FieldMap projects rows into a new field order. The output header is the
// mapping names in order; a source column may appear more than once.
type FieldMap []FieldMapping

// Set maps name to source. An existing name keeps its position and gets the
// new source; a new name is appended.
func (m FieldMap) Set(name string, source ColumnRef) FieldMap {
	for i := range m {
		if m[i].Name == name {
			m[i].Source = source
			return m
		}
	}
	return append(m, FieldMapping{Name: name, Source: source})
}

// Names returns the output header.
func (m FieldMap) Names() Header {
	names := make(Header, len(m))
	for i, f := range m {
		names[i] = f.Name
	}
	return names
}

// projection holds source positions resolved once per parse call.
type projection []int

func (m FieldMap) resolve(header Header) (projection, error) {
	p := make(projection, len(m))
	for i, f := range m {
		pos, ok := f.Source.resolve(header)
		if !ok {
			return nil, &ColumnError{Setting: SettingHeaderMap, Column: f.Source}
		}
		p[i] = pos
	}
	return p, nil
}

// apply selects the projected values from an equalized row.
func (p projection) apply(row Row) Row {
	out := make(Row, len(p))
	for i, pos := range p {
		out[i] = row[pos]
	}
	return out
}
