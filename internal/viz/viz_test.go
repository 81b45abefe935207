package viz

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/fixstep/internal/dynamo"
)

func TestProject(t *testing.T) {
	tr := dynamo.Trajectory{{1, 2, 3}, {4, 5, 6}}

	pts, err := Project(tr, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 2 || pts[1] != (Point{4, 6}) {
		t.Errorf("Project(0, 2) = %v", pts)
	}

	if _, err := Project(tr, 0, 3); !errors.Is(err, dynamo.ErrChannelRange) {
		t.Errorf("expected ErrChannelRange, got %v", err)
	}
}

func TestBoundsOf(t *testing.T) {
	pts := []Point{{math.NaN(), 0}, {1, -2}, {3, 4}, {math.Inf(1), 9}}

	b, ok := BoundsOf(pts)
	if !ok {
		t.Fatal("expected bounds")
	}
	if b != (Bounds{1, 3, -2, 4}) {
		t.Errorf("BoundsOf = %+v", b)
	}

	if _, ok := BoundsOf([]Point{{math.NaN(), 1}}); ok {
		t.Error("expected no bounds for all non-finite input")
	}

	flat := Bounds{MinX: 2, MaxX: 2}
	if flat.RangeX() != 1 || flat.RangeY() != 1 {
		t.Error("degenerate range should be 1")
	}
}

func TestCanvas_Plot(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Plot([]Point{{0, 0}, {1, 1}})

	if !c.IsSet(0, 3) || !c.IsSet(3, 0) {
		t.Errorf("endpoints not drawn:\n%s", c)
	}
	if c.IsSet(0, 0) {
		t.Error("unexpected dot at top-left")
	}
	if c.IsSet(-1, 0) || c.IsSet(100, 0) {
		t.Error("out-of-range dots should read unset")
	}
}

func TestPhaseASCII(t *testing.T) {
	pts := make([]Point, 30)
	for i := range pts {
		pts[i] = Point{float64(i), float64(i % 7)}
	}
	pts[10] = Point{math.NaN(), 0}

	out := PhaseASCII(pts, 40, 10)
	if strings.Count(out, "\n") != 13 {
		t.Errorf("expected 13 lines, got %d:\n%s", strings.Count(out, "\n"), out)
	}
	for _, glyph := range []string{"┌", "┘", ".", "o", "●"} {
		if !strings.Contains(out, glyph) {
			t.Errorf("missing %q in:\n%s", glyph, out)
		}
	}

	if PhaseASCII([]Point{{math.NaN(), math.NaN()}}, 40, 10) != "" {
		t.Error("expected empty plot for non-finite input")
	}
}

func TestSeriesPlot(t *testing.T) {
	out := SeriesPlot([]float64{1, 2, 3, math.NaN(), 5}, 5, 20, "x vs step")
	if !strings.Contains(out, "x vs step") {
		t.Errorf("caption missing:\n%s", out)
	}

	if SeriesPlot([]float64{math.Inf(1)}, 5, 20, "") != "" {
		t.Error("expected empty plot")
	}

	many := SeriesPlotMany([][]float64{{1, 2, 3}, {3, 2, 1}, {math.NaN()}}, 5, 20, "overlay")
	if !strings.Contains(many, "overlay") {
		t.Errorf("caption missing:\n%s", many)
	}
}

func TestSparklineChart(t *testing.T) {
	out := SparklineChart([]float64{0, 1, math.NaN(), 3}, 4)
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Errorf("unexpected sparkline %q", out)
	}
	if SparklineChart(nil, 3) != "───" {
		t.Error("empty sparkline should be a rule")
	}
}

func TestParseHex(t *testing.T) {
	c := ParseHex("#ff8000")
	if c.R != 255 || c.G != 128 || c.B != 0 || c.A != 255 {
		t.Errorf("ParseHex = %+v", c)
	}
	if ParseHex("red").R != 255 {
		t.Error("malformed input should give white")
	}
	if SchemeColor("rk4") == SchemeColor("euler") {
		t.Error("schemes should have distinct colors")
	}
}

func TestFigure_WritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "lorenz.png")
	fig := DefaultFigure("Lorenz")

	series := []Series{
		{Label: "euler", Points: []Point{{0, 0}, {1, 2}, {2, 1}}, Color: SchemeColor("euler")},
		{Label: "rk4", Points: []Point{{0, 1}, {math.NaN(), 0}, {2, 3}}, Color: SchemeColor("rk4")},
	}
	if err := fig.WritePNG(path, series); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}

	_, err = fig.Build([]Series{{Points: []Point{{math.NaN(), 0}}}})
	if !errors.Is(err, ErrNothingToPlot) {
		t.Errorf("expected ErrNothingToPlot, got %v", err)
	}
}
