package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/energyplot/energyplot/internal/histogram"
)

// sourceColors keys chart colors by cleaned series name. Unknown sources
// fall back to the plotutil palette.
var sourceColors = map[string]color.RGBA{
	"Coal":               {R: 0x6e, G: 0x5c, B: 0x4f, A: 0xff},
	"Oil":                {R: 0xc1, G: 0x52, B: 0x45, A: 0xff},
	"Gas":                {R: 0xd6, G: 0x8a, B: 0xc8, A: 0xff},
	"Nuclear":            {R: 0x6a, G: 0xa8, B: 0x4f, A: 0xff},
	"Hydropower":         {R: 0x46, G: 0x76, B: 0xc8, A: 0xff},
	"Wind":               {R: 0x6f, G: 0xc2, B: 0xe0, A: 0xff},
	"Solar":              {R: 0xf2, G: 0xc1, B: 0x3e, A: 0xff},
	"Traditionalbiomass": {R: 0xb8, G: 0x9c, B: 0x62, A: 0xff},
	"Biofuels":           {R: 0x95, G: 0xc6, B: 0x6b, A: 0xff},
	"Otherrenewables":    {R: 0x4c, G: 0xab, B: 0x9a, A: 0xff},
}

// Options configure the rendered stacked chart.
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	LogY   bool
}

// Render draws the stacked area chart with the Sum overlay line and a legend,
// and saves it to path. The image format follows the file extension.
func Render(s *histogram.Stack, opts Options, path string) error {
	if len(s.Layers) == 0 {
		return fmt.Errorf("nothing to render: stack has no layers")
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Year"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006"}
	p.Y.Label.Text = "consumed energy (TWh)"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	cum := s.Cumulative()

	// A true log axis cannot hold zero-valued buckets, so clamp everything
	// to the smallest positive stacked value.
	floor := 0.0
	if opts.LogY {
		floor = minPositive(cum)
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	edges := s.Layers[0].Edges
	lower := make([]float64, len(edges)-1)
	for k, h := range s.Layers {
		poly, err := plotter.NewPolygon(bandXY(edges, lower, cum[k], floor))
		if err != nil {
			return fmt.Errorf("building layer %s: %w", h.Name, err)
		}
		c := colorFor(h.Name, k)
		poly.Color = c
		poly.LineStyle.Width = 0
		p.Add(poly)
		p.Legend.Add(h.Name, swatch{c})
		lower = cum[k]
	}

	if s.Overlay != nil {
		line, err := plotter.NewLine(stepXY(s.Overlay.Edges, s.Overlay.Bins, floor))
		if err != nil {
			return fmt.Errorf("building %s overlay: %w", s.Overlay.Name, err)
		}
		line.StepStyle = plotter.PostStep
		line.Color = color.RGBA{A: 0xff}
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Overlay.Name, line)
	}

	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}
	return nil
}

// bandXY builds the step-outline polygon between the lower and upper bucket
// totals: along the top left to right, then back along the bottom.
func bandXY(edges, lower, upper []float64, floor float64) plotter.XYs {
	nbins := len(upper)
	pts := make(plotter.XYs, 0, 4*nbins)
	for i := 0; i < nbins; i++ {
		y := math.Max(upper[i], floor)
		pts = append(pts,
			plotter.XY{X: edges[i], Y: y},
			plotter.XY{X: edges[i+1], Y: y},
		)
	}
	for i := nbins - 1; i >= 0; i-- {
		y := math.Max(lower[i], floor)
		pts = append(pts,
			plotter.XY{X: edges[i+1], Y: y},
			plotter.XY{X: edges[i], Y: y},
		)
	}
	return pts
}

// stepXY builds the points of a post-step line over the bucket values,
// closed with a final point at the last edge.
func stepXY(edges, bins []float64, floor float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(bins)+1)
	for i, v := range bins {
		pts = append(pts, plotter.XY{X: edges[i], Y: math.Max(v, floor)})
	}
	last := math.Max(bins[len(bins)-1], floor)
	pts = append(pts, plotter.XY{X: edges[len(edges)-1], Y: last})
	return pts
}

func colorFor(name string, i int) color.Color {
	if c, ok := sourceColors[name]; ok {
		return c
	}
	return plotutil.Color(i)
}

// swatch is a legend thumbnail that draws a filled box in the series color.
type swatch struct {
	color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.Color, pts)
}

// minPositive finds the smallest strictly positive value in the cumulative
// rows, defaulting to 1 when every bucket is zero.
func minPositive(cum [][]float64) float64 {
	min := math.Inf(1)
	for _, row := range cum {
		for _, v := range row {
			if v > 0 && v < min {
				min = v
			}
		}
	}
	if math.IsInf(min, 1) {
		return 1
	}
	return min
}
