package report

// Summary holds the KPI counts shown at the top of the dashboard.
type Summary struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Blocked   int `json:"blocked"`
}

// Summarize counts rows, completed rows and blocked rows.
// Status matching is exact; "concluído" does not count as completed.
func Summarize(t *Table) Summary {
	sum := Summary{Active: t.Len()}
	idx := t.Index(ColumnStatus)
	if idx < 0 {
		return sum
	}
	for _, row := range t.Rows {
		switch row[idx] {
		case StatusCompleted:
			sum.Completed++
		case StatusBlocked:
			sum.Blocked++
		}
	}
	return sum
}
