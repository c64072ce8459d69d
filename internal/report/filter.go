package report

// Statuses returns the distinct Status values in order of first appearance.
func Statuses(t *Table) []string {
	idx := t.Index(ColumnStatus)
	if idx < 0 {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows {
		s := row[idx]
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Filter returns the rows whose Status is in selected, in their original
// order. An empty selection yields an empty table with the same columns.
func Filter(t *Table, selected []string) *Table {
	out := t.emptyLike()
	idx := t.Index(ColumnStatus)
	if idx < 0 || len(selected) == 0 {
		return out
	}

	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}

	for _, row := range t.Rows {
		if want[row[idx]] {
			cells := make([]string, len(row))
			copy(cells, row)
			out.Rows = append(out.Rows, cells)
		}
	}
	return out
}

// Selection is the set of statuses a user picked. A nil Statuses slice with
// All set means "every status present in the table".
type Selection struct {
	All      bool
	Statuses []string
}

// SelectAll is the default selection.
func SelectAll() Selection {
	return Selection{All: true}
}

// Resolve returns the concrete status list for t.
func (s Selection) Resolve(t *Table) []string {
	if s.All {
		return Statuses(t)
	}
	return s.Statuses
}

// Contains reports whether status is selected.
func (s Selection) Contains(status string) bool {
	if s.All {
		return true
	}
	for _, v := range s.Statuses {
		if v == status {
			return true
		}
	}
	return false
}

// Apply filters t by the selection.
func (s Selection) Apply(t *Table) *Table {
	return Filter(t, s.Resolve(t))
}
