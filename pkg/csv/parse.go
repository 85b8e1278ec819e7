package csv

import (
	"context"
	"io"
	"log/slog"

	"github.com/almaudoh/csvtools/internal/parser"
	"github.com/viant/afs"
)

// Parser holds the settings, file system and logger used by the parse and
// index entry points. Settings may be changed between calls; each call sees
// a snapshot. A Parser is not safe for concurrent use.
type Parser struct {
	settings Settings
	fs       afs.Service
	logger   *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithSettings replaces the default settings.
func WithSettings(settings Settings) Option {
	return func(p *Parser) {
		p.settings = settings
	}
}

// WithFieldMap sets the header_map setting.
func WithFieldMap(fieldMap FieldMap) Option {
	return func(p *Parser) {
		p.settings.HeaderMap = fieldMap
	}
}

// WithFileSystem sets the file system used to open file sources.
// Default: afs.New()
func WithFileSystem(fs afs.Service) Option {
	return func(p *Parser) {
		p.fs = fs
	}
}

// WithLogger sets the logger for debug output. Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a Parser with default settings.
func NewParser(opts ...Option) *Parser {
	p := &Parser{settings: DefaultSettings()}
	for _, opt := range opts {
		opt(p)
	}
	if p.fs == nil {
		p.fs = afs.New()
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p
}

// Settings returns a copy of the current settings.
func (p *Parser) Settings() Settings {
	return p.settings
}

// Get returns the named setting.
func (p *Parser) Get(name string) (any, error) {
	return p.settings.Get(name)
}

// Set assigns the named setting for subsequent calls.
func (p *Parser) Set(name string, value any) error {
	return p.settings.Set(name, value)
}

// Unset restores the named setting to its default.
func (p *Parser) Unset(name string) error {
	return p.settings.Unset(name)
}

// ParseString parses text held in memory.
func (p *Parser) ParseString(text string) (*Table, error) {
	settings := p.settings
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	reader := parser.NewReader(text, settings.readerOptions())
	return p.parse(newRecordStream(reader), settings)
}

// ParseFile parses the file at path, which may be a local path or any URL
// the file system understands. The file is read lazily and closed before
// ParseFile returns.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Table, error) {
	settings := p.settings
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	src, err := openFile(ctx, p.fs, path, settings.readerOptions())
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return p.parse(newRecordStream(src.reader), settings)
}

// parse drives a record stream through structure check, header resolution,
// blank filtering, equalization and projection.
func (p *Parser) parse(stream *recordStream, settings Settings) (*Table, error) {
	if settings.CheckStructure {
		if err := checkStructure(stream); err != nil {
			return nil, err
		}
	}

	header, err := resolveHeader(stream, settings.HasHeader)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return &Table{Header: Header{}, Rows: []Row{}}, nil
	}
	p.logger.Debug("header resolved", "columns", len(header), "synthetic", !settings.HasHeader)

	outHeader := header
	var proj projection
	if settings.HeaderMap != nil {
		if proj, err = settings.HeaderMap.resolve(header); err != nil {
			return nil, err
		}
		outHeader = settings.HeaderMap.Names()
	}

	rows := make([]Row, 0, 16)
	for settings.MaxRecords == NoLimit || len(rows) < settings.MaxRecords {
		record, err := stream.next()
		if err == io.EOF {
			return &Table{Header: outHeader, Rows: rows}, nil
		}
		if err != nil {
			return nil, err
		}

		row := Row(record.Fields)
		if row.Empty() {
			if settings.SkipEmpty {
				continue
			}
			row = blankRow(len(header))
		} else {
			row = Equalize(row, header)
		}
		if proj != nil {
			row = proj.apply(row)
		}
		rows = append(rows, row)
	}

	p.logger.Debug("max records reached", "max_records", settings.MaxRecords)
	return &Table{Header: outHeader, Rows: rows}, nil
}

// resolveHeader returns the first non-blank record when hasHeader is set,
// or a positional header as wide as the first non-blank record otherwise.
// In the headerless case that record stays in the stream as data. An input
// without records yields an empty header.
func resolveHeader(stream *recordStream, hasHeader bool) (Header, error) {
	if hasHeader {
		record, err := stream.nextNonBlank()
		if err == io.EOF {
			return Header{}, nil
		}
		if err != nil {
			return nil, err
		}
		return Header(record.Fields), nil
	}

	first, err := stream.lookahead(1)
	if err != nil {
		return nil, err
	}
	if len(first) == 0 {
		return Header{}, nil
	}
	return positionalHeader(len(first[0].Fields)), nil
}
