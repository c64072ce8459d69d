package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/cgdin/painel/internal/dashboard"
	"github.com/cgdin/painel/internal/report"
)

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(report.Summary{Active: 3, Completed: 1, Blocked: 1})
	for _, want := range []string{"Projetos Ativos", "Concluídos", "Impedimentos", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderProjects(t *testing.T) {
	tbl := report.NewTable(
		[]string{"Projeto", "Progresso", "Status", "Responsável"},
		[][]string{
			{"Alpha", "50", "Em andamento", "Ana"},
			{"Delta", "10", "Cancelado", "Rui"},
		},
	)
	out := RenderProjects(tbl, dashboard.DefaultPalette())
	for _, want := range []string{"Projeto", "Responsável", "Alpha", "Delta", "Cancelado"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderProjects_Empty(t *testing.T) {
	out := RenderProjects(report.NewTable([]string{"Projeto", "Progresso", "Status"}, nil), dashboard.DefaultPalette())
	if !strings.Contains(out, "Nenhum projeto") {
		t.Errorf("output = %q", out)
	}
}

func TestRenderCaption(t *testing.T) {
	snap := report.NewSnapshot(report.NewTable(nil, nil), "dados.csv", time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC))
	out := RenderCaption("Painel de Monitoramento Interno - CGDIN", snap)
	if !strings.Contains(out, "CGDIN") || !strings.Contains(out, "dados.csv") || !strings.Contains(out, "01/03/2025 09:30:00") {
		t.Errorf("output = %q", out)
	}
}
