package csv_test

import (
	"errors"
	"os"
	"testing"

	"github.com/almaudoh/csvtools/pkg/csv"
	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	t.Run("same line", func(t *testing.T) {
		err := &csv.ParseError{StartLine: 5, Line: 5, Column: 10, Err: csv.ErrBareQuote}
		assert.Equal(t, "parse error on line 5, column 10: bare quote in non-quoted field", err.Error())
	})

	t.Run("different lines", func(t *testing.T) {
		err := &csv.ParseError{StartLine: 3, Line: 5, Column: 1, Err: csv.ErrUnterminatedQuote}
		assert.Equal(t, "parse error on line 5 (started line 3), column 1: unterminated quoted field", err.Error())
		assert.ErrorIs(t, err, csv.ErrUnterminatedQuote)
	})
}

func TestSourceError(t *testing.T) {
	err := &csv.SourceError{Source: "users.csv", Err: os.ErrNotExist}
	assert.ErrorIs(t, err, csv.ErrInvalidSource)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "csv: invalid source users.csv: file does not exist", err.Error())
}

func TestStructureError(t *testing.T) {
	err := &csv.StructureError{Counts: []int{2, 3}}
	assert.ErrorIs(t, err, csv.ErrStructuralMismatch)
	assert.Equal(t, "csv: inconsistent column count: found 2, 3 columns in the first 10 records", err.Error())
}

func TestColumnError(t *testing.T) {
	err := &csv.ColumnError{Setting: csv.SettingHeaderMap, Column: csv.Index(4)}
	assert.ErrorIs(t, err, csv.ErrUnresolvedColumn)
	assert.Equal(t, "csv: unresolved column in header_map: #4", err.Error())
}

func TestCollisionError(t *testing.T) {
	var err error = &csv.CollisionError{Key: "a|b", Line: 7}
	assert.ErrorIs(t, err, csv.ErrCollisionAbort)
	assert.False(t, errors.Is(err, csv.ErrInvalidSource))
	assert.Equal(t, `csv: duplicate index key "a|b" on line 7`, err.Error())
}

func TestOptionsError(t *testing.T) {
	err := &csv.OptionsError{Field: "Quote", Message: "quote character same as delimiter"}
	assert.Equal(t, "csv: invalid Quote: quote character same as delimiter", err.Error())
}
