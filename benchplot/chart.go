// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchplot

import (
	"image/color"
	"math"
	"os"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// A series is one line on a chart. The name appears in the legend;
// an empty name on a single-series chart suppresses the legend.
type series struct {
	name string
	xys  plotter.XYs
}

// A lineChart describes one output chart: line-plus-marker series
// over a common x axis, with a grid and axis labels.
type lineChart struct {
	title  string
	xLabel string
	yLabel string
	series []series
}

// xyPoints pairs xs with ys, dropping points whose y is NaN (a group
// whose metric was absent from every contributing file).
func xyPoints(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return pts
}

// render draws c and writes it to path as a PNG, overwriting any
// existing file.
func (c *lineChart) render(path string) error {
	pl := plot.New()
	pl.Title.Text = c.title
	pl.X.Label.Text = c.xLabel
	pl.Y.Label.Text = c.yLabel
	pl.Add(plotter.NewGrid())

	var all []float64
	for i, s := range c.series {
		l, pts, err := plotter.NewLinePoints(s.xys)
		if err != nil {
			return err
		}
		l.Color = plotutil.Color(i)
		pts.Color = plotutil.Color(i)
		pts.Shape = plotutil.Shape(i)
		pl.Add(l, pts)
		if s.name != "" {
			pl.Legend.Add(s.name, l, pts)
		}
		for _, xy := range s.xys {
			all = append(all, xy.Y)
		}
	}
	pl.Legend.Top = true

	// Leave a little headroom so the extreme points do not sit on
	// the frame.
	if lo, hi := stats.Bounds(all); len(all) > 0 && hi > lo {
		pad := 0.05 * (hi - lo)
		pl.Y.Min, pl.Y.Max = lo-pad, hi+pad
	}

	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(16*vg.Centimeter, 12*vg.Centimeter),
		vgimg.UseBackgroundColor(color.White))}
	pl.Draw(draw.New(can))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := can.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
