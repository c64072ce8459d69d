package dashboard

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/cgdin/painel/internal/report"
)

// ErrEmptyChart is returned when there is nothing to draw.
var ErrEmptyChart = errors.New("chart has no bars")

const (
	barWidth    = 48
	barSpacing  = 16
	chartHeight = 420
	minWidth    = 640
)

// Bar is one project on the progress chart.
type Bar struct {
	Project  string
	Progress int
	Status   string
	Color    string
}

// Label is the x-axis text. The value is drawn above the bar instead.
func (b Bar) Label() string {
	return b.Project
}

// Chart is the progress-per-project bar chart.
type Chart struct {
	Title string
	Bars  []Bar
}

// BuildChart maps each row to a bar coloured by status, in table order.
// Statuses outside palette share one fallback colour per status.
func BuildChart(t *report.Table, palette Palette) Chart {
	palette = palette.Resolve(report.Statuses(t))
	recs := t.Records()
	bars := make([]Bar, len(recs))
	for i, r := range recs {
		color, _ := palette.Color(r.Status)
		bars[i] = Bar{
			Project:  r.Name,
			Progress: r.Progress,
			Status:   r.Status,
			Color:    color,
		}
	}
	return Chart{Title: "Evolução por Projeto", Bars: bars}
}

// Empty reports whether the chart has no bars.
func (c Chart) Empty() bool {
	return len(c.Bars) == 0
}

// yRange returns the axis bounds: at least 0..100, widened for outliers.
func (c Chart) yRange() (lo, hi int) {
	hi = 100
	for _, b := range c.Bars {
		if b.Progress > hi {
			hi = b.Progress
		}
		if b.Progress < lo {
			lo = b.Progress
		}
	}
	return lo, hi
}

// RenderSVG draws the chart with go-chart.
func (c Chart) RenderSVG(w io.Writer) error {
	if c.Empty() {
		return ErrEmptyChart
	}

	bars := make([]chart.Value, len(c.Bars))
	for i, b := range c.Bars {
		v := chart.Value{Label: b.Label(), Value: float64(b.Progress)}
		if col, ok := parseColor(b.Color); ok {
			v.Style = chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1}
		}
		bars[i] = v
	}

	lo, hi := c.yRange()
	width := len(c.Bars)*(barWidth+barSpacing) + 160
	if width < minWidth {
		width = minWidth
	}

	bc := chart.BarChart{
		Title:      c.Title,
		Width:      width,
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  report.ColumnProgress,
			Range: &chart.ContinuousRange{Min: float64(lo), Max: float64(hi)},
			Ticks: ticks(lo, hi),
		},
		Bars: bars,
	}
	bc.Elements = []chart.Renderable{c.valueLabels(lo, hi)}

	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// valueLabels draws each bar's value centred above it. Bar positions follow
// go-chart's layout: bars shrink, spacing first, when the canvas is too narrow.
func (c Chart) valueLabels(lo, hi int) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		width, spacing := barLayout(len(c.Bars), canvasBox.Width())
		yr := chart.ContinuousRange{Min: float64(lo), Max: float64(hi), Domain: canvasBox.Height()}
		style := chart.Style{
			FontSize:  chart.DefaultAxisFontSize,
			FontColor: chart.DefaultTextColor,
		}.InheritFrom(defaults)

		xoffset := canvasBox.Left
		for _, b := range c.Bars {
			text := strconv.Itoa(b.Progress)
			tb := chart.Draw.MeasureText(r, text, style)
			x := xoffset + spacing>>1 + width>>1 - tb.Width()>>1
			y := canvasBox.Bottom - yr.Translate(float64(b.Progress)) - 4
			chart.Draw.Text(r, text, x, y, style)
			xoffset += width + spacing
		}
	}
}

// barLayout returns the drawn bar width and spacing for n bars on a canvas.
func barLayout(n, canvas int) (width, spacing int) {
	width, spacing = barWidth, barSpacing
	if n*(width+spacing) > canvas {
		spacing = 0
		if rest := canvas - n*width; rest > 0 {
			spacing = int(math.Ceil(float64(rest) / float64(n)))
		}
	}
	if n*(width+spacing) > canvas {
		width = 0
		if rest := canvas - n*spacing; rest > 0 {
			width = int(math.Ceil(float64(rest) / float64(n)))
		}
	}
	return width, spacing
}

// ticks places a tick every 25 units between lo and hi inclusive.
func ticks(lo, hi int) []chart.Tick {
	start := lo - lo%25
	if start > lo {
		start -= 25
	}
	var out []chart.Tick
	for v := start; v <= hi; v += 25 {
		out = append(out, chart.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	if len(out) == 0 || out[len(out)-1].Value < float64(hi) {
		out = append(out, chart.Tick{Value: float64(hi), Label: strconv.Itoa(hi)})
	}
	return out
}

// LegendEntry is one status shown under the chart.
type LegendEntry struct {
	Status string
	Color  string
}

// Legend lists the statuses present on the chart in first-appearance order,
// each with the colour of its bars.
func (c Chart) Legend() []LegendEntry {
	seen := make(map[string]bool)
	var out []LegendEntry
	for _, b := range c.Bars {
		if seen[b.Status] {
			continue
		}
		seen[b.Status] = true
		out = append(out, LegendEntry{Status: b.Status, Color: b.Color})
	}
	return out
}
