package geneset

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// translucent circle fills, matching the dashboard's default palette
var vennColors = []color.NRGBA{
	{R: 0x4c, G: 0x78, B: 0xa8, A: 0x80},
	{R: 0xf5, G: 0x85, B: 0x18, A: 0x80},
	{R: 0x54, G: 0xa2, B: 0x4b, A: 0x80},
}

// vennCircle is a filled circle in data coordinates.
type vennCircle struct {
	x, y, r float64
	color   color.Color
}

func (c vennCircle) Plot(cv draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&cv)
	var (
		center = vg.Point{X: trX(c.x), Y: trY(c.y)}
		radius = trX(c.x+c.r) - trX(c.x)
		path   vg.Path
	)
	path.Move(vg.Point{X: center.X + radius, Y: center.Y})
	path.Arc(center, radius, 0, 2*math.Pi)
	path.Close()
	cv.SetColor(c.color)
	cv.Fill(path)
}

func (c vennCircle) DataRange() (xmin, xmax, ymin, ymax float64) {
	return c.x - c.r, c.x + c.r, c.y - c.r, c.y + c.r
}

// circle centers; the first N entries serve N sets
var (
	centers2 = [][2]float64{{-0.5, 0}, {0.5, 0}}
	centers3 = [][2]float64{{-0.5, -0.29}, {0.5, -0.29}, {0, 0.58}}

	// region label anchors keyed by membership mask (bit i = sets[i])
	regionXY2 = map[int][2]float64{
		1: {-1.0, 0}, 2: {1.0, 0}, 3: {0, 0},
	}
	regionXY3 = map[int][2]float64{
		1: {-0.95, -0.55}, 2: {0.95, -0.55}, 3: {0, -0.62},
		4: {0, 1.25}, 5: {-0.58, 0.38}, 6: {0.58, 0.38}, 7: {0, 0.05},
	}
)

// DrawVenn draws the exact circular diagram for 2 or 3 sets, labeling each
// region with its element count, and saves it to path (.png or .svg by
// extension). Callers fall back to PlotIntersectionBar above 3 sets.
func DrawVenn(path string, sets SetCollection, title string) error {
	p, err := newVennPlot(sets, title)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("geneset: save venn diagram: %w", err)
	}
	return nil
}

// RenderVenn streams the diagram to w in the given format ("png" or "svg").
func RenderVenn(w io.Writer, sets SetCollection, title, format string) error {
	p, err := newVennPlot(sets, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("geneset: render venn diagram: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("geneset: render venn diagram: %w", err)
	}
	return nil
}

func newVennPlot(sets SetCollection, title string) (*plot.Plot, error) {
	var n = len(sets)
	if n != 2 && n != 3 {
		return nil, fmt.Errorf("geneset: exact venn diagram supports 2 or 3 sets, got %d", n)
	}

	p := plot.New()
	p.Title.Text = title
	p.HideAxes()

	var centers = centers2
	var regionXY = regionXY2
	if n == 3 {
		centers = centers3
		regionXY = regionXY3
	}

	for i := 0; i < n; i++ {
		p.Add(vennCircle{
			x:     centers[i][0],
			y:     centers[i][1],
			r:     1,
			color: vennColors[i],
		})
	}

	var labels plotter.XYLabels
	counts := RegionCounts(sets)
	for mask := 1; mask < 1<<n; mask++ {
		xy := regionXY[mask]
		labels.XYs = append(labels.XYs, plotter.XY{X: xy[0], Y: xy[1]})
		labels.Labels = append(labels.Labels, fmt.Sprintf("%d", counts[mask]))
	}
	for i := 0; i < n; i++ {
		var y = centers[i][1] - 1.12
		if n == 3 && i == 2 {
			y = centers[i][1] + 1.08
		}
		labels.XYs = append(labels.XYs, plotter.XY{X: centers[i][0], Y: y})
		labels.Labels = append(labels.Labels, sets[i].Name)
	}

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("geneset: venn labels: %w", err)
	}
	p.Add(l)
	return p, nil
}
