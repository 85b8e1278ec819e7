package csv

import (
	"context"
	"io"
	"strings"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
)

// KeyTransform normalizes a column value before it becomes part of an index
// key.
type KeyTransform func(string) string

// Named key transforms, for settings loaded from configuration.
var keyTransforms = map[string]KeyTransform{
	"trim":  strings.TrimSpace,
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	"slug":  slug.Make,
	"snake": snakeCase,
}

// LookupTransform returns the named key transform: "trim", "lower", "upper",
// "slug" or "snake".
func LookupTransform(name string) (KeyTransform, bool) {
	t, ok := keyTransforms[name]
	return t, ok
}

// IndexTable maps composite keys to rows.
type IndexTable struct {
	Header Header
	// Keys lists the keys in first-insertion order.
	Keys []string
	Rows map[string]Row
}

// Len returns the number of keys.
func (t *IndexTable) Len() int {
	return len(t.Keys)
}

// Get returns the row stored under key.
func (t *IndexTable) Get(key string) (Row, bool) {
	row, ok := t.Rows[key]
	return row, ok
}

// Record returns the row stored under key as a name-keyed view.
func (t *IndexTable) Record(key string) (Record, bool) {
	row, ok := t.Rows[key]
	if !ok {
		return Record{}, false
	}
	return NewRecord(t.Header, row), true
}

type keyColumn struct {
	pos       int
	transform KeyTransform
}

// BuildIndex reads the file at path one record at a time and indexes every
// non-blank record by its IndexBy columns joined with SeparatorIndex.
// Duplicate keys follow OnCollision.
func (p *Parser) BuildIndex(ctx context.Context, path string) (*IndexTable, error) {
	settings := p.settings
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if len(settings.IndexBy) == 0 {
		return nil, errors.Wrap(ErrNoIndexColumns, "index_by is empty")
	}

	opts := settings.readerOptions()
	opts.MaxRecordSize = settings.RecordLength
	src, err := openFile(ctx, p.fs, path, opts)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	stream := newRecordStream(src.reader)
	if settings.CheckStructure {
		if err := checkStructure(stream); err != nil {
			return nil, err
		}
	}
	header, err := resolveHeader(stream, settings.HasHeader)
	if err != nil {
		return nil, err
	}
	columns, err := p.resolveIndexColumns(settings.IndexBy, header)
	if err != nil {
		return nil, err
	}

	table := &IndexTable{Header: header, Rows: make(map[string]Row)}
	for {
		record, err := stream.next()
		if err == io.EOF {
			return table, nil
		}
		if err != nil {
			return nil, err
		}
		row := Row(record.Fields)
		if row.Empty() {
			continue
		}
		row = Equalize(row, header)
		key := indexKey(row, columns, settings.SeparatorIndex)

		if _, exists := table.Rows[key]; exists {
			switch settings.OnCollision {
			case CollisionSkip:
				p.logger.Debug("duplicate key skipped", "key", key, "line", record.Line)
				continue
			case CollisionOverwrite:
				p.logger.Debug("duplicate key overwritten", "key", key, "line", record.Line)
				table.Rows[key] = row
				continue
			default:
				return nil, &CollisionError{Key: key, Line: record.Line}
			}
		}
		table.Keys = append(table.Keys, key)
		table.Rows[key] = row
	}
}

// resolveIndexColumns drops references missing from the header and fails
// only when none remain.
func (p *Parser) resolveIndexColumns(indexBy []IndexColumn, header Header) ([]keyColumn, error) {
	columns := make([]keyColumn, 0, len(indexBy))
	for _, c := range indexBy {
		pos, ok := c.Column.resolve(header)
		if !ok {
			p.logger.Debug("index column not found", "column", c.Column.String())
			continue
		}
		columns = append(columns, keyColumn{pos: pos, transform: c.Transform})
	}
	if len(columns) == 0 {
		return nil, errors.Wrapf(ErrNoIndexColumns, "none of %d index_by columns found in header", len(indexBy))
	}
	return columns, nil
}

func indexKey(row Row, columns []keyColumn, separator string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		value := row[c.pos]
		if c.transform != nil {
			value = c.transform(value)
		}
		parts[i] = value
	}
	return strings.Join(parts, separator)
}
