package viz

import (
	"fmt"
	"strings"
)

// PhaseASCII draws points as a framed character scatter. Early, middle
// and late thirds of the run use '.', 'o' and '●' so the direction of
// travel stays visible.
func PhaseASCII(points []Point, width, height int) string {
	b, ok := BoundsOf(points)
	if !ok || width < 2 || height < 2 {
		return ""
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range points {
		if !p.Finite() {
			continue
		}
		px := int(float64(width-1) * (p.X - b.MinX) / b.RangeX())
		py := height - 1 - int(float64(height-1)*(p.Y-b.MinY)/b.RangeY())
		if px < 0 || px >= width || py < 0 || py >= height {
			continue
		}
		switch {
		case i < len(points)/3:
			canvas[py][px] = '.'
		case i < 2*len(points)/3:
			canvas[py][px] = 'o'
		default:
			canvas[py][px] = '●'
		}
	}

	var sb strings.Builder
	top := fmt.Sprintf("%8.2f ", b.MaxY)
	mid := fmt.Sprintf("%8.2f ", (b.MaxY+b.MinY)/2)
	bottom := fmt.Sprintf("%8.2f ", b.MinY)
	blank := strings.Repeat(" ", len(top))

	sb.WriteString(top + "┌" + strings.Repeat("─", width) + "┐\n")
	for i, row := range canvas {
		label := blank
		if i == height/2 {
			label = mid
		}
		sb.WriteString(label + "│" + string(row) + "│\n")
	}
	sb.WriteString(bottom + "└" + strings.Repeat("─", width) + "┘\n")
	sb.WriteString(fmt.Sprintf("%s %-*.2f%*.2f\n", blank, width/2, b.MinX, width-width/2, b.MaxX))

	return sb.String()
}
