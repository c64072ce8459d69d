// Package cli renders dashboard data for the terminal.
package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cgdin/painel/internal/dashboard"
	"github.com/cgdin/painel/internal/report"
)

var (
	colorBorder = lipgloss.Color("#7f8c8d")
	colorText   = lipgloss.Color("#ecf0f1")
	colorAccent = lipgloss.Color("#3498db")
	colorMuted  = lipgloss.Color("#95a5a6")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// RenderTitle renders a centered title in a rounded box.
func RenderTitle(title string) string {
	width := 55
	if w := lipgloss.Width(title) + 4; w > width {
		width = w
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return box.Render(titleStyle.Render(title))
}

// RenderSummary renders the three KPIs as a two-column table.
func RenderSummary(s report.Summary) string {
	return newTable().
		Headers("Indicador", "Valor").
		Row("Projetos Ativos", strconv.Itoa(s.Active)).
		Row("Concluídos", strconv.Itoa(s.Completed)).
		Row("Impedimentos", strconv.Itoa(s.Blocked)).
		String()
}

// RenderProjects renders every column of t. Status cells are tinted with
// the palette colour when the status is mapped.
func RenderProjects(t *report.Table, palette dashboard.Palette) string {
	if t.Len() == 0 {
		return mutedStyle.Render("  Nenhum projeto para os status selecionados.")
	}

	statusIdx := t.Index(report.ColumnStatus)
	tbl := newTable().Headers(t.Columns...).Rows(t.Rows...)
	tbl.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if col != statusIdx || row < 0 || row >= len(t.Rows) {
			return cellStyle
		}
		if c, ok := palette.Color(t.Rows[row][col]); ok {
			return cellStyle.Foreground(lipgloss.Color(c))
		}
		return cellStyle
	})
	return tbl.String()
}

// RenderCaption renders the footer line.
func RenderCaption(caption string, snap *report.Snapshot) string {
	var b strings.Builder
	b.WriteString(mutedStyle.Render("  " + caption))
	if snap != nil {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("  Fonte: " + snap.Source + " · " + snap.LoadedAt.Format("02/01/2006 15:04:05")))
	}
	return b.String()
}

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
