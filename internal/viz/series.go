package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

// SeriesPlot charts values against their index. The series is cut at
// the first non-finite value; an empty result means nothing to draw.
func SeriesPlot(values []float64, height, width int, caption string) string {
	data := values
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			data = values[:i]
			break
		}
	}
	if len(data) == 0 {
		return ""
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// SeriesPlotMany overlays several equal-purpose series, one color each.
func SeriesPlotMany(series [][]float64, height, width int, caption string) string {
	data := make([][]float64, 0, len(series))
	for _, s := range series {
		cut := s
		for i, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				cut = s[:i]
				break
			}
		}
		if len(cut) > 0 {
			data = append(data, cut)
		}
	}
	if len(data) == 0 {
		return ""
	}

	colors := []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Green, asciigraph.Blue, asciigraph.Yellow}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	}
	if len(data) <= len(colors) {
		opts = append(opts, asciigraph.SeriesColors(colors[:len(data)]...))
	}
	return asciigraph.PlotMany(data, opts...)
}
