// Package stats turns raw getStatsData records into a row-oriented table
// and decorates code columns with display labels.
package stats

// Well-known column names produced by Normalize.
const (
	ColumnTime  = "time"
	ColumnArea  = "area"
	ColumnUnit  = "unit"
	ColumnValue = "value"
)

// Row maps column name to cell. Attribute cells hold a string or nil, the
// value cell holds a float64 or nil.
type Row map[string]any

// Table is an ordered column set plus rows in arrival order.
type Table struct {
	Columns []string
	Rows    []Row
}

func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

func (t Table) Len() int {
	return len(t.Rows)
}

// Values returns the column's cells in row order.
func (t Table) Values(column string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[column]
	}
	return out
}

func indexOf(columns []string, column string) int {
	for i, c := range columns {
		if c == column {
			return i
		}
	}
	return -1
}
