// Package parser implements an LL(1) record reader for delimited text.
//
// Each call to Reader.Read consumes one record from the token stream:
//
//	Record = Field { Delimiter Field } LineTerminator
//	       | LineTerminator                          (blank line)
//	Field  = QuotedField | UnquotedField
//
// Unlike a whole-document parser, blank lines are reported as records with no
// fields so callers can decide whether to keep or drop them.
package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/almaudoh/csvtools/internal/tokenizer"
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
)

var (
	// ErrUnterminatedQuote is returned when a quoted field is not closed before EOF.
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
	// ErrBareQuote is returned when a quote appears inside an unquoted field
	// or text follows a closing quote.
	ErrBareQuote = errors.New("bare quote in non-quoted field")
	// ErrRecordTooLarge is returned when a record exceeds MaxRecordSize.
	ErrRecordTooLarge = errors.New("record exceeds maximum size")
)

// ParseError reports a record that could not be read.
type ParseError struct {
	// StartLine is the line where the record started (1-indexed).
	StartLine int
	// Line is the line where the error was detected (1-indexed).
	Line int
	// Column is the column where the error was detected (1-indexed).
	Column int
	// Err is the underlying error.
	Err error
}

func (e *ParseError) Error() string {
	if e.StartLine == e.Line {
		return fmt.Sprintf("parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error on line %d (started line %d), column %d: %v",
		e.Line, e.StartLine, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Options configures the reader.
type Options struct {
	// Delimiter is the field separator. Default: ','
	Delimiter rune
	// Quote is the quote character, 0 disables quoting. Default: '"'
	Quote rune
	// LazyQuotes allows quotes in unquoted fields and text after a closing quote.
	LazyQuotes bool
	// TrimSpace removes leading and trailing white space from every field.
	TrimSpace bool
	// MaxRecordSize is the maximum record size in bytes. 0 means no limit.
	MaxRecordSize int
}

// DefaultOptions returns default reader options.
func DefaultOptions() Options {
	return Options{
		Delimiter: ',',
		Quote:     '"',
	}
}

// Record is one physical record.
type Record struct {
	// Fields holds the field values. A blank line has no fields.
	Fields []string
	// Line is the line the record starts on (1-indexed).
	Line int
	// Size is the byte size of the raw field content and delimiters.
	Size int
}

// Blank reports whether the record came from an empty line.
func (r Record) Blank() bool {
	return len(r.Fields) == 0
}

// Reader reads records from a token stream.
type Reader struct {
	tokenizer *shapetokenizer.Tokenizer
	current   *shapetokenizer.Token
	hasToken  bool
	opts      Options
	line      int
	column    int
}

// NewReader creates a reader over an in-memory string.
func NewReader(input string, opts Options) *Reader {
	return NewReaderFromStream(shapetokenizer.NewStream(input), opts)
}

// NewReaderFromStream creates a reader over a pre-configured stream,
// typically one built with tokenizer.NewStreamFromReader.
func NewReaderFromStream(stream shapetokenizer.Stream, opts Options) *Reader {
	tok := tokenizer.NewTokenizerWithStream(stream, tokenizer.Options{
		Delimiter: opts.Delimiter,
		Quote:     opts.Quote,
	})
	r := &Reader{
		tokenizer: &tok,
		opts:      opts,
		line:      1,
		column:    1,
	}
	r.advance()
	return r
}

// Read returns the next record, or io.EOF when the input is exhausted.
func (r *Reader) Read() (Record, error) {
	if !r.hasToken {
		return Record{}, io.EOF
	}

	line := r.line
	if r.peekKind() == tokenizer.TokenNewline {
		r.advance()
		return Record{Line: line}, nil
	}
	return r.readRecord(line)
}

// ReadAll reads the remaining records.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		record, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// readRecord parses Field { Delimiter Field } LineTerminator.
func (r *Reader) readRecord(line int) (Record, error) {
	fields := make([]string, 0, 8)
	size := 0

	for {
		field, err := r.readField(line)
		if err != nil {
			return Record{}, err
		}
		size += len(field)
		if r.opts.TrimSpace {
			field = strings.TrimSpace(field)
		}
		fields = append(fields, field)

		if r.peekKind() != tokenizer.TokenDelimiter {
			break
		}
		size += utf8.RuneLen(r.opts.Delimiter)
		r.advance()
	}

	// Newline or EOF terminates the record.
	if r.peekKind() == tokenizer.TokenNewline {
		r.advance()
	}

	if r.opts.MaxRecordSize > 0 && size > r.opts.MaxRecordSize {
		return Record{}, r.errorf(line, fmt.Errorf("%w (%d > %d)", ErrRecordTooLarge, size, r.opts.MaxRecordSize))
	}

	return Record{Fields: fields, Line: line, Size: size}, nil
}

func (r *Reader) readField(line int) (string, error) {
	if r.opts.Quote != 0 && r.peekKind() == tokenizer.TokenQuote {
		return r.readQuotedField(line)
	}
	return r.readUnquotedField(line)
}

// readQuotedField parses
//
//	QuotedField = Quote { QuotedChar | Quote Quote } Quote ;
//
// Delimiters and newlines inside quotes are literal.
func (r *Reader) readQuotedField(line int) (string, error) {
	startLine, startColumn := r.line, r.column
	r.advance() // opening quote

	var value strings.Builder
	for {
		if !r.hasToken {
			return "", &ParseError{StartLine: line, Line: startLine, Column: startColumn, Err: ErrUnterminatedQuote}
		}

		switch r.current.Kind() {
		case tokenizer.TokenQuote:
			r.advance()
			if r.peekKind() == tokenizer.TokenQuote {
				value.WriteRune(r.opts.Quote)
				r.advance()
				continue
			}
			if err := r.readTrailing(line, &value); err != nil {
				return "", err
			}
			return value.String(), nil
		default:
			value.WriteString(r.current.ValueString())
			r.advance()
		}
	}
}

// readTrailing handles text between a closing quote and the next delimiter.
func (r *Reader) readTrailing(line int, value *strings.Builder) error {
	for r.hasToken {
		kind := r.current.Kind()
		if kind == tokenizer.TokenDelimiter || kind == tokenizer.TokenNewline {
			return nil
		}
		if r.opts.TrimSpace && kind == tokenizer.TokenField && strings.TrimSpace(r.current.ValueString()) == "" {
			r.advance()
			continue
		}
		if !r.opts.LazyQuotes {
			return r.errorf(line, ErrBareQuote)
		}
		value.WriteString(r.current.ValueString())
		r.advance()
	}
	return nil
}

// readUnquotedField parses
//
//	UnquotedField = { UnquotedChar } ;
//
// With LazyQuotes a quote is kept as a literal character. With TrimSpace a
// quote preceded only by white space opens a quoted field.
func (r *Reader) readUnquotedField(line int) (string, error) {
	var value strings.Builder
	for r.hasToken {
		switch r.current.Kind() {
		case tokenizer.TokenDelimiter, tokenizer.TokenNewline:
			return value.String(), nil
		case tokenizer.TokenQuote:
			if r.opts.TrimSpace && strings.TrimSpace(value.String()) == "" {
				return r.readQuotedField(line)
			}
			if !r.opts.LazyQuotes {
				return "", r.errorf(line, ErrBareQuote)
			}
			value.WriteRune(r.opts.Quote)
		default:
			value.WriteString(r.current.ValueString())
		}
		r.advance()
	}
	return value.String(), nil
}

func (r *Reader) peekKind() string {
	if !r.hasToken || r.current == nil {
		return tokenizer.TokenEOF
	}
	return r.current.Kind()
}

// advance moves to the next token, keeping line and column in step with
// the consumed input.
func (r *Reader) advance() {
	if r.current != nil {
		if r.current.Kind() == tokenizer.TokenNewline {
			r.line++
			r.column = 1
		} else {
			r.column += utf8.RuneCountInString(r.current.ValueString())
		}
	}

	token, ok := r.tokenizer.NextToken()
	if !ok {
		r.hasToken = false
		r.current = nil
		return
	}
	r.current = token
	r.hasToken = true
}

func (r *Reader) errorf(startLine int, err error) *ParseError {
	return &ParseError{StartLine: startLine, Line: r.line, Column: r.column, Err: err}
}
