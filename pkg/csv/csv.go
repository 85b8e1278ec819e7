// Package csv parses delimited text into header and rows, projects columns
// through a FieldMap and builds keyed lookup tables.
//
// Input comes from a string or from a file opened through viant/afs, so a
// local path or any supported URL works as a file source. Both sources share
// one pipeline:
//
//  1. The first ten non-blank records must share one column count
//     (Settings.CheckStructure).
//  2. The header is the first non-blank record, or "0", "1", ... when
//     Settings.HasHeader is false.
//  3. Every following record is tokenized, dropped if blank and
//     Settings.SkipEmpty is set, equalized to the header width and projected
//     through Settings.HeaderMap.
//  4. Reading stops at the end of input or after Settings.MaxRecords rows.
//
// # Example
//
//	settings := csv.DefaultSettings()
//	fm := csv.FieldMap{}.Set("id", csv.Name("ID")).Set("email", csv.Index(3))
//	table, err := csv.ParseString("ID,Name,Age,Email\n1,Ann,30,ann@example.com", settings, fm)
//	if err != nil {
//	    // handle error
//	}
//	// table.Header == Header{"id", "email"}
//
// # Indexing
//
//	settings := csv.DefaultSettings()
//	settings.IndexBy = []csv.IndexColumn{{Column: csv.Name("email"), Transform: strings.ToLower}}
//	settings.OnCollision = csv.CollisionSkip
//	index, err := csv.BuildIndex(ctx, "users.csv", settings)
//
// # Thread Safety
//
// The package-level functions create their own Parser and are safe for
// concurrent use. A Parser or List must not be shared between goroutines.
package csv

import (
	"context"
)

// ParseString parses text with the given settings. A non-nil fieldMap
// replaces settings.HeaderMap.
func ParseString(text string, settings Settings, fieldMap FieldMap) (*Table, error) {
	if fieldMap != nil {
		settings.HeaderMap = fieldMap
	}
	return NewParser(WithSettings(settings)).ParseString(text)
}

// ParseFile parses the file at path with the given settings. A non-nil
// fieldMap replaces settings.HeaderMap.
func ParseFile(ctx context.Context, path string, settings Settings, fieldMap FieldMap) (*Table, error) {
	if fieldMap != nil {
		settings.HeaderMap = fieldMap
	}
	return NewParser(WithSettings(settings)).ParseFile(ctx, path)
}

// BuildIndex indexes the file at path by settings.IndexBy.
func BuildIndex(ctx context.Context, path string, settings Settings) (*IndexTable, error) {
	return NewParser(WithSettings(settings)).BuildIndex(ctx, path)
}
