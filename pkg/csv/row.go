package csv

import (
	"strconv"
)

// Header is the ordered list of column identifiers. Duplicates are allowed;
// name lookups take the first match.
type Header []string

// Index returns the position of the first entry equal to name, or -1.
func (h Header) Index(name string) int {
	for i, n := range h {
		if n == name {
			return i
		}
	}
	return -1
}

// positionalHeader synthesizes "0", "1", ... for headerless input.
func positionalHeader(width int) Header {
	h := make(Header, width)
	for i := range h {
		h[i] = strconv.Itoa(i)
	}
	return h
}

// Row is the ordered field values of one record.
type Row []string

// Empty reports whether the row has no fields or only empty fields.
func (r Row) Empty() bool {
	for _, f := range r {
		if f != "" {
			return false
		}
	}
	return true
}

// Equalize returns row sized to the header: short rows are padded with empty
// fields and long rows are truncated. An empty row is returned unchanged so a
// blank line stays distinguishable from a short one.
func Equalize(row Row, header Header) Row {
	width := len(header)
	switch {
	case row.Empty():
		return row
	case len(row) > width:
		return row[:width:width]
	case len(row) < width:
		out := make(Row, width)
		copy(out, row)
		return out
	}
	return row
}

// blankRow is a retained blank line, widened to the header.
func blankRow(width int) Row {
	return make(Row, width)
}

// Record is a name-keyed view of a Row.
type Record struct {
	header Header
	fields Row
}

// NewRecord pairs a row with its header.
func NewRecord(header Header, row Row) Record {
	return Record{header: header, fields: row}
}

// Get gets the field value at the specified index.
// Returns (value, false) if the index is out of bounds.
func (r Record) Get(index int) (string, bool) {
	if index < 0 || index >= len(r.fields) {
		return "", false
	}
	return r.fields[index], true
}

// GetByName gets the field value of the first header entry equal to name.
func (r Record) GetByName(name string) (string, bool) {
	return r.Get(r.header.Index(name))
}

// Fields returns a copy of the field values.
func (r Record) Fields() Row {
	fields := make(Row, len(r.fields))
	copy(fields, r.fields)
	return fields
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	return len(r.fields)
}

// Map returns the record keyed by header name. For duplicate names the first
// column wins.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.header))
	for i := len(r.header) - 1; i >= 0; i-- {
		if i < len(r.fields) {
			m[r.header[i]] = r.fields[i]
		}
	}
	return m
}

// Table is the result of a parse: the output header and its rows.
type Table struct {
	Header Header
	Rows   []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Record returns row i as a name-keyed view.
func (t *Table) Record(i int) (Record, bool) {
	if i < 0 || i >= len(t.Rows) {
		return Record{}, false
	}
	return NewRecord(t.Header, t.Rows[i]), true
}
