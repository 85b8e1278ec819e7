package csv_test

import (
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/almaudoh/csvtools/pkg/csv"
)

// benchmarkInput builds rows records of five columns with a quoted field.
func benchmarkInput(rows int) string {
	var b strings.Builder
	b.WriteString("id,name,email,city,note\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%d,user%d,user%d@example.com,City %d,\"note, with \"\"quotes\"\"\"\n", i, i, i, i%50)
	}
	return b.String()
}

func BenchmarkParseString_Medium(b *testing.B) {
	data := benchmarkInput(1000)
	settings := csv.DefaultSettings()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := csv.ParseString(data, settings, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseString_FieldMap(b *testing.B) {
	data := benchmarkInput(1000)
	fm := csv.FieldMap{}.Set("mail", csv.Name("email")).Set("id", csv.Index(0))
	settings := csv.DefaultSettings()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := csv.ParseString(data, settings, fm); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodingCSV_ReadAll_Medium(b *testing.B) {
	data := benchmarkInput(1000)
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := stdcsv.NewReader(strings.NewReader(data))
		if _, err := r.ReadAll(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuildIndex_Large(b *testing.B) {
	data := benchmarkInput(10000)
	path := filepath.Join(b.TempDir(), "large.csv")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		b.Fatal(err)
	}
	settings := csv.DefaultSettings()
	settings.IndexBy = []csv.IndexColumn{{Column: csv.Name("email")}}
	ctx := context.Background()

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := csv.BuildIndex(ctx, path, settings); err != nil {
			b.Fatal(err)
		}
	}
}
