package csv

import (
	"context"
	"iter"
)

// List is a lazily parsed, cached view of a text or file source. The source
// is parsed on first access and the result is kept until the source, the
// field map or any setting changes. Text takes precedence over a file when
// both are set. A List is not safe for concurrent use.
type List struct {
	parser  *Parser
	text    string
	hasText bool
	path    string
	table   *Table
	err     error
}

// NewList creates an empty List. Options configure the underlying Parser.
func NewList(opts ...Option) *List {
	return &List{parser: NewParser(opts...)}
}

// SetText makes text the source.
func (l *List) SetText(text string) *List {
	l.text, l.hasText = text, true
	return l.invalidate()
}

// SetFile makes the file at path the source, unless text is set.
func (l *List) SetFile(path string) *List {
	l.path = path
	return l.invalidate()
}

// SetFieldMap sets the projection applied to every row.
func (l *List) SetFieldMap(fieldMap FieldMap) *List {
	l.parser.settings.HeaderMap = fieldMap
	return l.invalidate()
}

// SetHasHeader sets whether the first record is the header.
func (l *List) SetHasHeader(hasHeader bool) *List {
	l.parser.settings.HasHeader = hasHeader
	return l.invalidate()
}

// SetMaxRecords caps the number of rows; NoLimit removes the cap.
func (l *List) SetMaxRecords(n int) *List {
	l.parser.settings.MaxRecords = n
	return l.invalidate()
}

// Set assigns any named setting.
func (l *List) Set(name string, value any) error {
	if err := l.parser.Set(name, value); err != nil {
		return err
	}
	l.invalidate()
	return nil
}

func (l *List) invalidate() *List {
	l.table, l.err = nil, nil
	return l
}

// Load parses the source if needed and returns the cached table.
func (l *List) Load(ctx context.Context) (*Table, error) {
	if l.table != nil || l.err != nil {
		return l.table, l.err
	}
	switch {
	case l.hasText:
		l.table, l.err = l.parser.ParseString(l.text)
	case l.path != "":
		l.table, l.err = l.parser.ParseFile(ctx, l.path)
	default:
		l.table = &Table{Header: Header{}, Rows: []Row{}}
	}
	return l.table, l.err
}

// Header returns the output header.
func (l *List) Header(ctx context.Context) (Header, error) {
	table, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return table.Header, nil
}

// Len returns the number of rows.
func (l *List) Len(ctx context.Context) (int, error) {
	table, err := l.Load(ctx)
	if err != nil {
		return 0, err
	}
	return table.Len(), nil
}

// At returns row i as a name-keyed record.
func (l *List) At(ctx context.Context, i int) (Record, bool, error) {
	table, err := l.Load(ctx)
	if err != nil {
		return Record{}, false, err
	}
	record, ok := table.Record(i)
	return record, ok, nil
}

// All iterates over the rows in order. A parse failure ends the sequence
// early; check Err afterwards.
func (l *List) All(ctx context.Context) iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		table, err := l.Load(ctx)
		if err != nil {
			return
		}
		for i, row := range table.Rows {
			if !yield(i, row) {
				return
			}
		}
	}
}

// Err returns the error of the last load, if any.
func (l *List) Err() error {
	return l.err
}
