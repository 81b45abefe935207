package viz

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var ErrNothingToPlot = errors.New("viz: no finite points to plot")

// Series is one labeled polyline of a figure.
type Series struct {
	Label  string
	Points []Point
	Color  string
}

type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// DefaultFigure is the x-z projection figure with a 6x6 inch canvas.
func DefaultFigure(title string) Figure {
	return Figure{
		Title:  title,
		XLabel: "x",
		YLabel: "z",
		Width:  6 * vg.Inch,
		Height: 6 * vg.Inch,
		DPI:    150,
	}
}

// Build assembles the plot. Non-finite points are dropped from each
// series; series with no finite points are left out.
func (f Figure) Build(series []Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	p.Add(plotter.NewGrid())

	drawn := 0
	for _, s := range series {
		pts := make(plotter.XYs, 0, len(s.Points))
		for _, pt := range s.Points {
			if pt.Finite() {
				pts = append(pts, plotter.XY{X: pt.X, Y: pt.Y})
			}
		}
		if len(pts) == 0 {
			continue
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Label, err)
		}
		line.LineStyle.Width = vg.Points(0.7)
		line.LineStyle.Color = ParseHex(s.Color)
		p.Add(line)
		if s.Label != "" {
			p.Legend.Add(s.Label, line)
		}
		drawn++
	}

	if drawn == 0 {
		return nil, ErrNothingToPlot
	}
	p.Legend.Top = true
	return p, nil
}

// WritePNG renders the series to a PNG file, creating parent directories.
func (f Figure) WritePNG(path string, series []Series) error {
	p, err := f.Build(series)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(f.Width, f.Height),
		vgimg.UseDPI(f.DPI),
	)
	p.Draw(draw.New(c))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return file.Close()
}
