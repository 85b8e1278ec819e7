package csv

import (
	"context"
	"sort"

	"github.com/almaudoh/csvtools/internal/parser"
)

// structureSampleSize is the number of leading non-blank records that must
// agree on a column count.
const structureSampleSize = 10

// checkStructure inspects the leading records of stream without consuming
// them. An input without records passes.
func checkStructure(stream *recordStream) error {
	sample, err := stream.lookahead(structureSampleSize)
	if err != nil {
		return err
	}
	if counts := columnCounts(sample); len(counts) > 1 {
		return &StructureError{Counts: counts}
	}
	return nil
}

// columnCounts returns the distinct field counts, ascending.
func columnCounts(records []parser.Record) []int {
	seen := make(map[int]bool)
	var counts []int
	for _, record := range records {
		n := len(record.Fields)
		if !seen[n] {
			seen[n] = true
			counts = append(counts, n)
		}
	}
	sort.Ints(counts)
	return counts
}

// IsStructurallyValid reports whether the first ten non-blank records of
// the file at path share exactly one column count. Missing files, files
// without records and files that fail to tokenize are not valid.
func (p *Parser) IsStructurallyValid(ctx context.Context, path string) bool {
	src, err := openFile(ctx, p.fs, path, p.settings.readerOptions())
	if err != nil {
		p.logger.Debug("structure check failed", "path", path, "error", err)
		return false
	}
	defer src.Close()
	return isStructurallyValid(newRecordStream(src.reader))
}

// IsStructurallyValidString is IsStructurallyValid for text held in memory.
func (p *Parser) IsStructurallyValidString(text string) bool {
	return isStructurallyValid(newRecordStream(parser.NewReader(text, p.settings.readerOptions())))
}

func isStructurallyValid(stream *recordStream) bool {
	sample, err := stream.lookahead(structureSampleSize)
	if err != nil {
		return false
	}
	return len(columnCounts(sample)) == 1
}

// IsStructurallyValid checks the file at path using the given delimiter and
// quote and otherwise default settings.
func IsStructurallyValid(ctx context.Context, path string, delimiter, quote rune) bool {
	settings := DefaultSettings()
	settings.Delimiter = delimiter
	settings.Quote = quote
	if settings.Validate() != nil {
		return false
	}
	return NewParser(WithSettings(settings)).IsStructurallyValid(ctx, path)
}
