package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/fixstep/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG dots.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoriesToSVG draws each series as a path on a shared, padded
// coordinate box. A non-finite point starts a new subpath.
func TrajectoriesToSVG(series []viz.Series, width, height int) string {
	var all []viz.Point
	for _, s := range series {
		all = append(all, s.Points...)
	}
	b, ok := viz.BoundsOf(all)
	if !ok {
		return ""
	}
	b = b.Pad(0.1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, s := range series {
		d := pathData(s.Points, b, width, height)
		if d == "" {
			continue
		}
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"%s\"><title>%s</title></path>\n",
			s.Color, d, html.EscapeString(s.Label))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func pathData(points []viz.Point, b viz.Bounds, width, height int) string {
	var sb strings.Builder
	pen := false
	for _, p := range points {
		if !p.Finite() {
			pen = false
			continue
		}
		x := (p.X - b.MinX) / b.RangeX() * float64(width)
		y := float64(height) - (p.Y-b.MinY)/b.RangeY()*float64(height)

		cmd := " L"
		if !pen {
			cmd = " M"
		}
		fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, x, y)
		pen = true
	}
	return strings.TrimSpace(sb.String())
}
