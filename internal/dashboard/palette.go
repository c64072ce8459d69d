// Package dashboard turns a filtered project table into what the page shows:
// KPI counts, the progress bar chart, the status legend and the detail table.
//
// Rendering of HTML lives in internal/web/templates; this package only builds
// plain values and the chart SVG.
package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cgdin/painel/internal/report"
)

// Palette maps a status label to a hex colour ("#rrggbb").
type Palette map[string]string

// DefaultPalette is the fixed status colouring.
func DefaultPalette() Palette {
	return Palette{
		report.StatusCompleted:    "#2ecc71",
		report.StatusInProgress:   "#3498db",
		report.StatusBlocked:      "#e74c3c",
		report.StatusUndetermined: "#95a5a6",
	}
}

// Color returns the colour for status and whether one is mapped. Call
// Resolve first to get a colour for statuses outside the palette.
func (p Palette) Color(status string) (string, bool) {
	c, ok := p[status]
	return c, ok
}

// Merge returns a copy of p with overrides applied.
func (p Palette) Merge(overrides map[string]string) Palette {
	out := make(Palette, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// minColorDistance is how far (RGB euclidean) a fallback colour must be from
// every palette colour to be told apart in the legend.
const minColorDistance = 70

// Resolve returns a copy of p in which every status in statuses has a
// colour. Unmapped statuses get one fallback each, in the order given, taken
// from go-chart's series colours minus those close to a palette colour.
func (p Palette) Resolve(statuses []string) Palette {
	out := p.Merge(nil)
	fallbacks := p.fallbacks()
	k := 0
	for _, st := range statuses {
		if _, ok := out[st]; ok {
			continue
		}
		if len(fallbacks) > 0 {
			out[st] = fallbacks[k%len(fallbacks)]
		} else {
			out[st] = hexColor(chart.GetDefaultColor(k))
		}
		k++
	}
	return out
}

// fallbacks lists the candidate colours for unmapped statuses: the default
// series colours, then the alternates, without repeats or near-palette ones.
func (p Palette) fallbacks() []string {
	used := make([]drawing.Color, 0, len(p))
	for _, v := range p {
		if c, ok := parseColor(v); ok {
			used = append(used, c)
		}
	}

	candidates := append(append([]drawing.Color{}, chart.DefaultColors...), chart.DefaultAlternateColors...)
	var out []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		hex := hexColor(c)
		if seen[hex] {
			continue
		}
		seen[hex] = true
		if nearAny(c, used) {
			continue
		}
		out = append(out, hex)
	}
	return out
}

func nearAny(c drawing.Color, others []drawing.Color) bool {
	for _, o := range others {
		if colorDistance(c, o) < minColorDistance {
			return true
		}
	}
	return false
}

func colorDistance(a, b drawing.Color) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// parseColor reads "#rgb" or "#rrggbb".
func parseColor(hex string) (drawing.Color, bool) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 3 && len(h) != 6 {
		return drawing.Color{}, false
	}
	return drawing.ColorFromHex(h), true
}

func hexColor(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
