package viz

import (
	"math"

	"github.com/san-kum/fixstep/internal/dynamo"
)

type Point struct {
	X, Y float64
}

// Finite reports whether both coordinates are finite.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Project pairs channels i and j of every sample.
func Project(tr dynamo.Trajectory, i, j int) ([]Point, error) {
	if err := dynamo.CheckChannel(i); err != nil {
		return nil, err
	}
	if err := dynamo.CheckChannel(j); err != nil {
		return nil, err
	}

	xs, ys := tr.Project(i, j)
	points := make([]Point, len(xs))
	for k := range xs {
		points[k] = Point{X: xs[k], Y: ys[k]}
	}
	return points, nil
}

type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// RangeX is the horizontal extent, or 1 when all points share an x.
func (b Bounds) RangeX() float64 {
	if r := b.MaxX - b.MinX; r > 0 {
		return r
	}
	return 1
}

func (b Bounds) RangeY() float64 {
	if r := b.MaxY - b.MinY; r > 0 {
		return r
	}
	return 1
}

// Pad widens the box by frac of its range on every side.
func (b Bounds) Pad(frac float64) Bounds {
	dx, dy := b.RangeX()*frac, b.RangeY()*frac
	return Bounds{b.MinX - dx, b.MaxX + dx, b.MinY - dy, b.MaxY + dy}
}

// BoundsOf returns the bounding box of the finite points. ok is false
// when there are none.
func BoundsOf(points []Point) (b Bounds, ok bool) {
	for _, p := range points {
		if !p.Finite() {
			continue
		}
		if !ok {
			b = Bounds{p.X, p.X, p.Y, p.Y}
			ok = true
			continue
		}
		b.MinX = math.Min(b.MinX, p.X)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b, ok
}
