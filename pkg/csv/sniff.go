package csv

import (
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/almaudoh/csvtools/internal/parser"
)

// sniffCandidates are the delimiters Sniff chooses from, in tie-break order.
var sniffCandidates = []rune{',', '\t', ';', '|'}

var (
	identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_ ]*$`)
	datePattern       = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4})$`)
)

// Dialect is the delimiter and header layout guessed from a sample.
type Dialect struct {
	Delimiter rune
	HasHeader bool
}

// Apply copies the dialect into settings.
func (d Dialect) Apply(settings *Settings) {
	settings.Delimiter = d.Delimiter
	settings.HasHeader = d.HasHeader
}

// Sniff guesses the dialect of sample, typically the first few kilobytes of
// a file. The delimiter splitting the most records into one consistent
// column count wins; ',' is returned when nothing splits. A record cut off
// at the end of the sample is ignored.
func Sniff(sample string, quote rune) Dialect {
	if i := strings.LastIndexAny(sample, "\r\n"); i >= 0 && i < len(sample)-1 {
		sample = sample[:i+1]
	}

	best := Dialect{Delimiter: ','}
	bestScore := 0
	var bestRecords []parser.Record
	for _, delim := range sniffCandidates {
		if delim == quote {
			continue
		}
		records := sniffRecords(sample, delim, quote)
		score := delimiterScore(records)
		if score > bestScore {
			best.Delimiter, bestScore, bestRecords = delim, score, records
		}
	}
	best.HasHeader = looksLikeHeader(bestRecords)
	return best
}

func sniffRecords(sample string, delim, quote rune) []parser.Record {
	opts := parser.DefaultOptions()
	opts.Delimiter, opts.Quote, opts.TrimSpace = delim, quote, true
	reader := parser.NewReader(sample, opts)

	var records []parser.Record
	for len(records) < structureSampleSize {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil
		}
		if !Row(record.Fields).Empty() {
			records = append(records, record)
		}
	}
	return records
}

// delimiterScore favours delimiters that split every record into the same
// number of fields.
func delimiterScore(records []parser.Record) int {
	if len(records) == 0 || len(records[0].Fields) < 2 {
		return 0
	}
	counts := columnCounts(records)
	width := len(records[0].Fields) - 1
	if len(counts) == 1 {
		return width * 10 * len(records)
	}
	return width
}

// looksLikeHeader compares the first record against the second: a header
// has more name-like fields than data-like ones and the row below it does
// not.
func looksLikeHeader(records []parser.Record) bool {
	if len(records) < 2 {
		return false
	}
	first, firstData := fieldKinds(records[0].Fields)
	if first <= firstData {
		return false
	}
	second, secondData := fieldKinds(records[1].Fields)
	return secondData > 0 || second < first
}

func fieldKinds(fields []string) (names, data int) {
	for _, f := range fields {
		switch {
		case f == "":
		case isNumeric(f), strings.Contains(f, "@"), datePattern.MatchString(f):
			data++
		case identifierPattern.MatchString(f):
			names++
		}
	}
	return names, data
}

func isNumeric(s string) bool {
	s = strings.TrimPrefix(s, "-")
	hasDot := false
	for _, ch := range s {
		if ch == '.' {
			if hasDot {
				return false
			}
			hasDot = true
		} else if !unicode.IsDigit(ch) {
			return false
		}
	}
	return s != "" && s != "."
}

// snakeCase converts "First Name" or "firstName" to "first_name".
func snakeCase(s string) string {
	var b strings.Builder
	prevSpace := false
	for i, ch := range s {
		if ch == ' ' || ch == '-' {
			if b.Len() > 0 && !prevSpace {
				b.WriteRune('_')
			}
			prevSpace = true
			continue
		}
		if unicode.IsUpper(ch) && i > 0 && !prevSpace {
			b.WriteRune('_')
		}
		b.WriteRune(unicode.ToLower(ch))
		prevSpace = false
	}
	return b.String()
}
