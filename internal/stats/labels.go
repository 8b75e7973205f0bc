package stats

// LabelSpec adds LabelColumn next to Column, holding Labels[code] or
// Default when the code has no label.
type LabelSpec struct {
	Column      string
	LabelColumn string
	Labels      map[string]string
	Default     string
}

// Translate returns a copy of t with one label column per spec, inserted
// immediately after its code column. Specs whose code column is absent are
// skipped. t is not modified.
func Translate(t Table, specs ...LabelSpec) Table {
	columns := append([]string(nil), t.Columns...)
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		row := make(Row, len(r)+len(specs))
		for k, v := range r {
			row[k] = v
		}
		rows[i] = row
	}

	for _, spec := range specs {
		at := indexOf(columns, spec.Column)
		if at < 0 || spec.LabelColumn == "" {
			continue
		}
		if indexOf(columns, spec.LabelColumn) < 0 {
			columns = append(columns[:at+1], append([]string{spec.LabelColumn}, columns[at+1:]...)...)
		}
		for _, row := range rows {
			row[spec.LabelColumn] = spec.label(row[spec.Column])
		}
	}

	return Table{Columns: columns, Rows: rows}
}

func (s LabelSpec) label(code any) string {
	c, ok := code.(string)
	if !ok {
		return s.Default
	}
	if name, ok := s.Labels[c]; ok {
		return name
	}
	return s.Default
}
