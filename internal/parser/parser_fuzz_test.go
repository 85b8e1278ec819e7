package parser

import (
	"testing"
)

// FuzzReader feeds random input to the record reader looking for panics.
// Run with: go test -fuzz=FuzzReader -fuzztime=30s ./internal/parser
func FuzzReader(f *testing.F) {
	seeds := []string{
		"",
		"a",
		"a,b,c\n",
		"a,b\nc,d",
		"\n\n",
		"\"with,comma\"",
		"\"with\"\"quote\"",
		"\"multi\nline\"",
		"a\r\nb",
		"a\rb",
		",,",
		"\"\"\"\"",
		"\"unclosed",
		"a\"b",
	}
	for _, s := range seeds {
		f.Add(s, false)
	}

	f.Fuzz(func(t *testing.T, input string, lazy bool) {
		opts := DefaultOptions()
		opts.LazyQuotes = lazy
		opts.TrimSpace = true
		records, err := NewReader(input, opts).ReadAll()
		if err != nil {
			return
		}
		for _, record := range records {
			if record.Line < 1 {
				t.Fatalf("record line %d < 1 for input %q", record.Line, input)
			}
		}
	})
}
