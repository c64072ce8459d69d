package dashboard

import (
	"net/url"
	"time"

	"github.com/cgdin/painel/internal/report"
)

// Settings are the page-level texts and colours.
type Settings struct {
	Title   string
	Caption string
	Palette Palette
}

// DefaultSettings returns the standard page texts and palette.
func DefaultSettings() Settings {
	return Settings{
		Title:   "Monitoramento de Projetos Estratégicos",
		Caption: "Painel de Monitoramento Interno - CGDIN",
		Palette: DefaultPalette(),
	}
}

// Option is one entry of the status filter.
type Option struct {
	Status   string
	Selected bool
	Color    string
}

// View is everything one render of the dashboard shows.
type View struct {
	Title   string
	Caption string

	SnapshotID string
	Source     string
	LoadedAt   time.Time

	Options []Option
	Summary report.Summary
	Chart   Chart
	Table   *report.Table

	// Query reproduces the selection for chart and export links.
	Query string
}

// ChartURL is the chart image link for this selection.
func (v View) ChartURL() string {
	return withQuery("/chart.svg", v.Query)
}

// ExportURL is the CSV download link for this selection.
func (v View) ExportURL() string {
	return withQuery("/export.csv", v.Query)
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}

// Build runs one render cycle over a loaded snapshot: filter by the
// selection, then derive KPIs, chart and table from the filtered rows.
func Build(snap *report.Snapshot, sel report.Selection, s Settings) View {
	all := snap.Table
	filtered := sel.Apply(all)
	statuses := report.Statuses(all)
	// Resolved over the whole table so a status keeps its colour when
	// other statuses are filtered out.
	palette := s.Palette.Resolve(statuses)

	opts := make([]Option, len(statuses))
	for i, st := range statuses {
		color, _ := palette.Color(st)
		opts[i] = Option{Status: st, Selected: sel.Contains(st), Color: color}
	}

	return View{
		Title:      s.Title,
		Caption:    s.Caption,
		SnapshotID: snap.ID.String(),
		Source:     snap.Source,
		LoadedAt:   snap.LoadedAt,
		Options:    opts,
		Summary:    report.Summarize(filtered),
		Chart:      BuildChart(filtered, palette),
		Table:      filtered,
		Query:      SelectionQuery(sel).Encode(),
	}
}

// Query parameter names for the status filter.
const (
	paramStatus   = "status"
	paramFiltered = "filtered"
)

// ParseSelection reads the status filter from a query string. Without the
// "filtered" marker every status is selected; with it, exactly the listed
// statuses are, possibly none.
func ParseSelection(q url.Values) report.Selection {
	statuses := q[paramStatus]
	if q.Get(paramFiltered) == "" && len(statuses) == 0 {
		return report.SelectAll()
	}
	out := make([]string, 0, len(statuses))
	seen := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return report.Selection{Statuses: out}
}

// SelectionQuery is the inverse of ParseSelection.
func SelectionQuery(sel report.Selection) url.Values {
	q := url.Values{}
	if sel.All {
		return q
	}
	q.Set(paramFiltered, "1")
	for _, s := range sel.Statuses {
		q.Add(paramStatus, s)
	}
	return q
}
