package csv

import (
	"fmt"
	"strings"

	"github.com/almaudoh/csvtools/internal/parser"
	"github.com/pkg/errors"
)

// ParseError represents a record that could not be tokenized, with position
// information.
type ParseError = parser.ParseError

// Tokenizing errors, reported inside a *ParseError.
var (
	// ErrUnterminatedQuote indicates a quoted field that is never closed.
	ErrUnterminatedQuote = parser.ErrUnterminatedQuote
	// ErrBareQuote indicates a quote inside an unquoted field.
	ErrBareQuote = parser.ErrBareQuote
	// ErrRecordTooLarge indicates a record longer than Settings.RecordLength.
	ErrRecordTooLarge = parser.ErrRecordTooLarge
)

// Errors reported by the parse and index entry points.
var (
	// ErrInvalidSource indicates a missing or unreadable file.
	ErrInvalidSource = errors.New("invalid source")
	// ErrStructuralMismatch indicates inconsistent column counts in the
	// first records of the input.
	ErrStructuralMismatch = errors.New("inconsistent column count")
	// ErrUnresolvedColumn indicates a column reference that matches no header
	// entry or is out of bounds.
	ErrUnresolvedColumn = errors.New("unresolved column")
	// ErrCollisionAbort indicates a duplicate index key under CollisionAbort.
	ErrCollisionAbort = errors.New("duplicate index key")
	// ErrNoIndexColumns indicates that no index_by column could be resolved.
	ErrNoIndexColumns = errors.New("no index columns")
	// ErrUnknownSetting indicates a setting name that does not exist.
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrInvalidSetting indicates a setting value of the wrong type or range.
	ErrInvalidSetting = errors.New("invalid setting value")
)

// SourceError reports a source that could not be opened.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("csv: invalid source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is reports ErrInvalidSource as a match.
func (e *SourceError) Is(target error) bool {
	return target == ErrInvalidSource
}

// StructureError reports the distinct column counts found while checking
// the leading records of the input.
type StructureError struct {
	Counts []int
}

func (e *StructureError) Error() string {
	counts := make([]string, len(e.Counts))
	for i, c := range e.Counts {
		counts[i] = fmt.Sprint(c)
	}
	return fmt.Sprintf("csv: %v: found %s columns in the first %d records",
		ErrStructuralMismatch, strings.Join(counts, ", "), structureSampleSize)
}

func (e *StructureError) Unwrap() error {
	return ErrStructuralMismatch
}

// ColumnError reports a column reference that could not be resolved
// against the header.
type ColumnError struct {
	// Setting names where the reference came from, e.g. "header_map".
	Setting string
	Column  ColumnRef
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("csv: %v in %s: %s", ErrUnresolvedColumn, e.Setting, e.Column)
}

func (e *ColumnError) Unwrap() error {
	return ErrUnresolvedColumn
}

// CollisionError reports the record that produced a duplicate index key.
type CollisionError struct {
	Key  string
	Line int
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("csv: %v %q on line %d", ErrCollisionAbort, e.Key, e.Line)
}

func (e *CollisionError) Unwrap() error {
	return ErrCollisionAbort
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "csv: invalid " + e.Field + ": " + e.Message
}
