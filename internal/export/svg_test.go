package export

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/fixstep/internal/viz"
)

func TestTrajectoriesToSVG(t *testing.T) {
	series := []viz.Series{
		{Label: "euler", Color: "#ff5555", Points: []viz.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: math.NaN(), Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 1}}},
		{Label: "rk4", Color: "#55dd77", Points: []viz.Point{{X: 0, Y: 1}, {X: 3, Y: 0}}},
	}

	svg := TrajectoriesToSVG(series, 200, 100)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("malformed svg:\n%s", svg)
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected 2 paths, got %d", got)
	}
	// the NaN splits the first series into two subpaths
	if got := strings.Count(svg, "M"); got != 3 {
		t.Errorf("expected 3 subpaths, got %d", got)
	}
	if !strings.Contains(svg, "<title>rk4</title>") {
		t.Error("missing series title")
	}

	if TrajectoriesToSVG([]viz.Series{{Points: []viz.Point{{X: math.NaN(), Y: 1}}}}, 10, 10) != "" {
		t.Error("expected empty svg for non-finite input")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	svg := CanvasToSVG(c, 2)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should render empty")
	}
}
