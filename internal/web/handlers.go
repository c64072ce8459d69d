package web

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/cgdin/painel/internal/dashboard"
	"github.com/cgdin/painel/internal/logging"
	"github.com/cgdin/painel/internal/report"
	"github.com/cgdin/painel/internal/web/templates"
)

// view loads the current snapshot and builds the view for the request's
// status selection. On failure it has already written the error response.
func (s *Server) view(w http.ResponseWriter, r *http.Request) (dashboard.View, bool) {
	snap, err := s.data.Snapshot(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return dashboard.View{}, false
	}
	sel := dashboard.ParseSelection(r.URL.Query())
	return dashboard.Build(snap, sel, s.settings), true
}

// handleDashboard renders the dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}

	logging.FromContext(r.Context()).Debug("rendering dashboard",
		"snapshot_id", v.SnapshotID,
		"rows", v.Table.Len(),
	)

	var buf bytes.Buffer
	if err := templates.Layout(v.Title, templates.Dashboard(v)).Render(r.Context(), &buf); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// handleChart serves the progress chart for the selection as SVG.
// An empty selection has no chart; the page shows a placeholder instead.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := v.Chart.RenderSVG(&buf); err != nil {
		if errors.Is(err, dashboard.ErrEmptyChart) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// handleExport downloads the filtered table as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}

	data, err := report.ExportCSV(v.Table)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("export",
		"snapshot_id", v.SnapshotID,
		"rows", v.Table.Len(),
		"bytes", len(data),
	)

	w.Header().Set("Content-Type", report.ExportMIME)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": report.ExportFileName}))
	w.Write(data)
}

// summaryResponse is the body of GET /api/summary.
type summaryResponse struct {
	SnapshotID string         `json:"snapshot_id"`
	Source     string         `json:"source"`
	LoadedAt   time.Time      `json:"loaded_at"`
	Statuses   []string       `json:"statuses"`
	Selected   []string       `json:"selected"`
	Summary    report.Summary `json:"summary"`
	Projects   []projectJSON  `json:"projects"`
}

type projectJSON struct {
	Name     string `json:"name"`
	Progress int    `json:"progress"`
	Status   string `json:"status"`
}

// handleSummary returns KPIs and the filtered projects as JSON.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}

	resp := summaryResponse{
		SnapshotID: v.SnapshotID,
		Source:     v.Source,
		LoadedAt:   v.LoadedAt,
		Statuses:   make([]string, 0, len(v.Options)),
		Selected:   []string{},
		Summary:    v.Summary,
		Projects:   []projectJSON{},
	}
	for _, o := range v.Options {
		resp.Statuses = append(resp.Statuses, o.Status)
		if o.Selected {
			resp.Selected = append(resp.Selected, o.Status)
		}
	}
	for _, rec := range v.Table.Records() {
		resp.Projects = append(resp.Projects, projectJSON{Name: rec.Name, Progress: rec.Progress, Status: rec.Status})
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports liveness and whether a data source currently loads.
// It answers 200 either way so a missing spreadsheet does not restart the
// process.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ok", "data": "available"}
	if snap, err := s.data.Snapshot(r.Context()); err != nil {
		body["data"] = "unavailable"
		body["code"] = dashboard.MapError(err, s.data.Candidates()).Code
	} else {
		body["source"] = snap.Source
	}
	writeJSON(w, http.StatusOK, body)
}
