package csv_test

import (
	"testing"

	"github.com/almaudoh/csvtools/pkg/csv"
	"github.com/stretchr/testify/assert"
)

func TestEqualize(t *testing.T) {
	header := csv.Header{"a", "b", "c"}
	tests := []struct {
		name string
		row  csv.Row
		want csv.Row
	}{
		{"exact width", csv.Row{"1", "2", "3"}, csv.Row{"1", "2", "3"}},
		{"short row padded", csv.Row{"1"}, csv.Row{"1", "", ""}},
		{"short row with empty fields padded", csv.Row{"", "2"}, csv.Row{"", "2", ""}},
		{"long row truncated", csv.Row{"1", "2", "3", "4"}, csv.Row{"1", "2", "3"}},
		{"zero-length row unchanged", csv.Row{}, csv.Row{}},
		{"all-empty row unchanged", csv.Row{"", ""}, csv.Row{"", ""}},
		{"all-empty long row unchanged", csv.Row{"", "", "", ""}, csv.Row{"", "", "", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := csv.Equalize(tt.row, header)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, csv.Equalize(got, header), "equalize is idempotent")
		})
	}
}

func TestEqualize_TruncationDoesNotShareCapacity(t *testing.T) {
	row := csv.Row{"1", "2", "3"}
	got := csv.Equalize(row, csv.Header{"a"})
	_ = append(got, "x")
	assert.Equal(t, "2", row[1])
}

func TestHeader_Index(t *testing.T) {
	h := csv.Header{"id", "name", "id"}
	assert.Equal(t, 0, h.Index("id"))
	assert.Equal(t, 1, h.Index("name"))
	assert.Equal(t, -1, h.Index("missing"))
}

func TestRow_Empty(t *testing.T) {
	assert.True(t, csv.Row{}.Empty())
	assert.True(t, csv.Row{"", ""}.Empty())
	assert.False(t, csv.Row{"", "x"}.Empty())
}

func TestRecord(t *testing.T) {
	r := csv.NewRecord(csv.Header{"id", "name", "id"}, csv.Row{"1", "Ann", "2"})

	value, ok := r.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "Ann", value)

	_, ok = r.Get(3)
	assert.False(t, ok)

	value, ok = r.GetByName("id")
	assert.True(t, ok)
	assert.Equal(t, "1", value)

	_, ok = r.GetByName("missing")
	assert.False(t, ok)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, map[string]string{"id": "1", "name": "Ann"}, r.Map())

	fields := r.Fields()
	fields[0] = "changed"
	value, _ = r.Get(0)
	assert.Equal(t, "1", value)
}

func TestTable_Record(t *testing.T) {
	table := &csv.Table{Header: csv.Header{"a"}, Rows: []csv.Row{{"1"}}}
	assert.Equal(t, 1, table.Len())

	record, ok := table.Record(0)
	assert.True(t, ok)
	value, _ := record.GetByName("a")
	assert.Equal(t, "1", value)

	_, ok = table.Record(1)
	assert.False(t, ok)
}

func TestFieldMap(t *testing.T) {
	fm := csv.FieldMap{}.
		Set("first", csv.Name("A")).
		Set("second", csv.Index(1)).
		Set("first", csv.Name("C"))

	assert.Equal(t, csv.Header{"first", "second"}, fm.Names())
	assert.Equal(t, csv.Name("C"), fm[0].Source)
}

func TestParseColumnRef(t *testing.T) {
	assert.Equal(t, csv.Index(3), csv.ParseColumnRef("3"))
	assert.Equal(t, csv.Name("email"), csv.ParseColumnRef("email"))
	assert.Equal(t, csv.Name("-1"), csv.ParseColumnRef("-1"))
	assert.True(t, csv.Index(0).IsIndex())
	assert.False(t, csv.Name("0").IsIndex())
	assert.Equal(t, "#2", csv.Index(2).String())
	assert.Equal(t, `"id"`, csv.Name("id").String())
}
