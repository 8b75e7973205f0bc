package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"kakeistat/internal/platform/estat"
)

const (
	attrPrefix = "@"
	valueKey   = "$"
)

// Normalize flattens records into a Table. Attribute keys lose their "@"
// prefix, "$" becomes the value column, and the value is parsed as a number
// (nil when it is not one). Attributes missing from a record are nil. The
// time column, when present, comes first.
//
// Go maps do not keep JSON key order, so keys inside one record are taken
// in dimension order (tab, categories, area, time, unit, others, value)
// and the column set is the union of those in record order.
func Normalize(records []estat.Record) Table {
	if len(records) == 0 {
		return Table{}
	}

	var columns []string
	seen := make(map[string]bool)
	rows := make([]Row, 0, len(records))

	for _, rec := range records {
		row := make(Row, len(rec))
		for _, key := range recordKeys(rec) {
			var col string
			switch {
			case key == valueKey:
				col = ColumnValue
				row[col] = parseValue(rec[key])
			case strings.HasPrefix(key, attrPrefix):
				col = strings.TrimPrefix(key, attrPrefix)
				row[col] = attrValue(rec[key])
			default:
				continue
			}
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
		rows = append(rows, row)
	}

	for _, row := range rows {
		for _, col := range columns {
			if _, ok := row[col]; !ok {
				row[col] = nil
			}
		}
	}

	return Table{Columns: timeFirst(columns), Rows: rows}
}

func recordKeys(rec estat.Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := keyRank(keys[i]), keyRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func keyRank(key string) int {
	switch {
	case key == valueKey:
		return 6
	case key == "@tab":
		return 0
	case strings.HasPrefix(key, "@cat"):
		return 1
	case key == "@area":
		return 2
	case key == "@time":
		return 3
	case key == "@unit":
		return 4
	default:
		return 5
	}
}

func timeFirst(columns []string) []string {
	i := indexOf(columns, ColumnTime)
	if i <= 0 {
		return columns
	}
	out := make([]string, 0, len(columns))
	out = append(out, ColumnTime)
	out = append(out, columns[:i]...)
	return append(out, columns[i+1:]...)
}

func attrValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func parseValue(v any) any {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		s := strings.TrimSpace(x)
		if strings.ContainsAny(s, "xX_") {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	default:
		return nil
	}
}
