package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/topology"
	"github.com/san-kum/lumitree/internal/viz"
)

const background = "#0a0a0a"

// FrameSVG draws one rendered frame as seen through cam. LEDs are painted
// far to near so closer ones cover those behind them.
func FrameSVG(m *topology.Model, frame lumen.Frame, cam *viz.Camera, size int) string {
	if m == nil || size <= 0 {
		return ""
	}

	type dot struct {
		x, y, dist float64
		color      lumen.Color
	}
	dots := make([]dot, 0, m.NumLEDs())
	for i := 0; i < m.NumLEDs() && i < len(frame); i++ {
		x, y, dist, ok := cam.Plane(m.Center(i))
		if !ok {
			continue
		}
		dots = append(dots, dot{x, y, dist, frame[i]})
	}
	sort.Slice(dots, func(i, j int) bool { return dots[i].dist > dots[j].dist })

	half := float64(size) / 2
	unit := half * 0.8
	radius := math.Max(1, float64(size)/200)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, background))

	for _, d := range dots {
		cx := half + d.x*unit
		cy := half - d.y*unit
		// Nearer LEDs draw slightly larger.
		r := radius * cam.Distance / d.dist
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s"/>
`, cx, cy, r, hex(d.color)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Series is one line of a SeriesSVG chart.
type Series struct {
	Name   string
	Color  string
	Values []float64
}

// SeriesSVG charts evenly spaced values in [0,1], one path per series.
// Series with fewer than two values are skipped.
func SeriesSVG(series []Series, width, height int) string {
	var drawable []Series
	for _, s := range series {
		if len(s.Values) >= 2 {
			drawable = append(drawable, s)
		}
	}
	if len(drawable) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	pad := float64(height) * 0.1
	plotH := float64(height) - 2*pad

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	for _, s := range drawable {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Color))
		step := float64(width) / float64(len(s.Values)-1)
		for i, v := range s.Values {
			v = math.Max(0, math.Min(1, v))
			x := float64(i) * step
			y := pad + (1-v)*plotH
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString(`"/>` + "\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func hex(c lumen.Color) string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}
