package plot

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"sort"
	"strings"

	moremath "github.com/aclements/go-moremath/stats"
	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"hyporeport/domain/dataset"
	"hyporeport/internal/errors"
	"hyporeport/internal/profiling"
)

// Labels name the reference lines in the legend
type Labels struct {
	Mean   string
	Median string
	Mode   string
	Count  string
}

// FigureOptions configure the histogram and boxplot figure
type FigureOptions struct {
	Bins    int     // 0 picks the count automatically
	Whisker float64 // boxplot whisker reach in IQRs
	Title   string
	Labels  Labels
}

// DefaultFigureOptions returns automatic bins, 1.5 IQR whiskers and English labels
func DefaultFigureOptions() FigureOptions {
	return FigureOptions{
		Whisker: profiling.DefaultWhisker,
		Labels:  Labels{Mean: "Mean", Median: "Median", Mode: "Mode", Count: "Count"},
	}
}

// BoxStats are the components of a box and whisker plot
type BoxStats struct {
	Q1, Median, Q3 float64
	Mean           float64
	Low, High      float64 // whisker ends: most extreme values inside the fences
	Outliers       []float64
}

// HistogramBoxplot is a histogram with a KDE overlay, a horizontal boxplot
// drawn above the bars and dashed lines at the mean, median and mode
type HistogramBoxplot struct {
	Column  string
	Bins    int
	Summary profiling.Summary
	Box     BoxStats

	plot *gonumplot.Plot
}

var (
	barColor   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0x99}
	boxColor   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	gridColor  = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x80}
	dashes     = []vg.Length{vg.Points(4), vg.Points(3)}
	lineWidth  = vg.Points(1.5)
	kdeSamples = 200
)

// NewHistogramBoxplot builds the figure for the non-missing values of col
func NewHistogramBoxplot(col dataset.Column, opts FigureOptions) (*HistogramBoxplot, error) {
	data, err := col.Numeric()
	if err != nil {
		return nil, err
	}
	if len(data) < 2 {
		return nil, errors.InsufficientData(fmt.Sprintf("column %s needs at least 2 observations to plot", col.Name))
	}
	if opts.Bins < 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("bins must be positive, got %d", opts.Bins))
	}
	if opts.Whisker <= 0 {
		opts.Whisker = profiling.DefaultWhisker
	}
	if opts.Labels == (Labels{}) {
		opts.Labels = DefaultFigureOptions().Labels
	}

	summary, err := profiling.Describe(data)
	if err != nil {
		return nil, err
	}
	if summary.Max == summary.Min {
		return nil, errors.DegenerateData(fmt.Sprintf("column %s is constant", col.Name))
	}
	bins := opts.Bins
	if bins == 0 {
		bins = AutoBins(data)
	}

	p := gonumplot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = col.Name
	p.Y.Label.Text = opts.Labels.Count

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Vertical.Dashes = dashes
	grid.Horizontal.Color = gridColor
	grid.Horizontal.Dashes = dashes
	p.Add(grid)

	hist, err := plotter.NewHist(plotter.Values(data), bins)
	if err != nil {
		return nil, errors.Wrap(err, "failed to bin values")
	}
	hist.FillColor = barColor
	hist.LineStyle.Width = vg.Points(0.5)
	p.Add(hist)

	var peak float64
	for _, b := range hist.Bins {
		peak = math.Max(peak, b.Weight)
	}

	// density scaled to counts so it overlays the bars
	kde := &moremath.KDE{Sample: moremath.Sample{Xs: data}}
	scale := float64(len(data)) * hist.Width
	density := plotter.NewFunction(func(x float64) float64 {
		return kde.PDF(x) * scale
	})
	density.XMin, density.XMax = summary.Min, summary.Max
	density.Samples = kdeSamples
	density.Color = boxColor
	density.Width = lineWidth
	p.Add(density)

	box := boxStats(data, summary, opts.Whisker)
	top, err := addBoxplot(p, box, peak)
	if err != nil {
		return nil, err
	}

	refs := []struct {
		label string
		x     float64
		color int
	}{
		{opts.Labels.Mean, summary.Mean, 1},
		{opts.Labels.Median, summary.Median, 2},
		{opts.Labels.Mode, summary.Mode, 3},
	}
	for _, ref := range refs {
		line, err := plotter.NewLine(plotter.XYs{{X: ref.x, Y: 0}, {X: ref.x, Y: peak}})
		if err != nil {
			return nil, errors.Wrap(err, "failed to draw reference line")
		}
		line.Color = plotutil.Color(ref.color)
		line.Dashes = dashes
		line.Width = lineWidth
		p.Add(line)
		p.Legend.Add(ref.label, line)
	}
	p.Legend.Top = true

	p.Y.Min = 0
	p.Y.Max = top

	return &HistogramBoxplot{
		Column:  col.Name,
		Bins:    bins,
		Summary: summary,
		Box:     box,
		plot:    p,
	}, nil
}

// addBoxplot draws the box in a band above the tallest bar and returns the
// top of the band
func addBoxplot(p *gonumplot.Plot, box BoxStats, peak float64) (float64, error) {
	gap := peak * 0.08
	height := peak * 0.12
	y0 := peak + gap
	y1 := y0 + height
	mid := (y0 + y1) / 2

	rect, err := plotter.NewPolygon(plotter.XYs{
		{X: box.Q1, Y: y0}, {X: box.Q3, Y: y0}, {X: box.Q3, Y: y1}, {X: box.Q1, Y: y1},
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to draw box")
	}
	rect.Color = barColor
	rect.LineStyle.Color = boxColor
	p.Add(rect)

	segments := []plotter.XYs{
		{{X: box.Low, Y: mid}, {X: box.Q1, Y: mid}},
		{{X: box.Q3, Y: mid}, {X: box.High, Y: mid}},
		{{X: box.Low, Y: y0 + height/4}, {X: box.Low, Y: y1 - height/4}},
		{{X: box.High, Y: y0 + height/4}, {X: box.High, Y: y1 - height/4}},
	}
	for _, seg := range segments {
		l, err := plotter.NewLine(seg)
		if err != nil {
			return 0, errors.Wrap(err, "failed to draw whisker")
		}
		l.Color = boxColor
		p.Add(l)
	}

	for _, ref := range []struct {
		x     float64
		color int
	}{{box.Mean, 1}, {box.Median, 2}} {
		l, err := plotter.NewLine(plotter.XYs{{X: ref.x, Y: y0}, {X: ref.x, Y: y1}})
		if err != nil {
			return 0, errors.Wrap(err, "failed to draw box line")
		}
		l.Color = plotutil.Color(ref.color)
		l.Dashes = dashes
		l.Width = lineWidth
		p.Add(l)
	}

	if len(box.Outliers) > 0 {
		pts := make(plotter.XYs, len(box.Outliers))
		for i, v := range box.Outliers {
			pts[i] = plotter.XY{X: v, Y: mid}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return 0, errors.Wrap(err, "failed to draw outliers")
		}
		s.GlyphStyle.Shape = draw.RingGlyph{}
		s.GlyphStyle.Color = boxColor
		p.Add(s)
	}
	return y1 + gap, nil
}

// boxStats computes the box from the summary quartiles; whiskers stop at the
// most extreme values inside the fences
func boxStats(data []float64, summary profiling.Summary, whisker float64) BoxStats {
	iqr := summary.Q3 - summary.Q1
	lower := summary.Q1 - whisker*iqr
	upper := summary.Q3 + whisker*iqr

	box := BoxStats{
		Q1:     summary.Q1,
		Median: summary.Median,
		Q3:     summary.Q3,
		Mean:   summary.Mean,
		Low:    summary.Q1,
		High:   summary.Q3,
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	for _, v := range sorted {
		if v < lower || v > upper {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		box.Low = math.Min(box.Low, v)
		box.High = math.Max(box.High, v)
	}
	return box
}

// AutoBins returns the larger of the Sturges and Freedman-Diaconis bin counts
func AutoBins(data []float64) int {
	n := float64(len(data))
	if n < 2 {
		return 1
	}
	sturges := int(math.Ceil(math.Log2(n))) + 1

	samp := moremath.Sample{Xs: data}
	lo, hi := samp.Bounds()
	q1, q3 := profiling.Quartiles(data)
	iqr := q3 - q1
	if iqr <= 0 || hi <= lo {
		return sturges
	}
	width := 2 * iqr / math.Cbrt(n)
	fd := int(math.Ceil((hi - lo) / width))
	if fd > sturges {
		return fd
	}
	return sturges
}

// Save renders the figure; the image format follows the file extension
func (f *HistogramBoxplot) Save(path string, widthIn, heightIn float64) error {
	if widthIn <= 0 || heightIn <= 0 {
		return errors.InvalidInput(fmt.Sprintf("figure size must be positive, got %vx%v", widthIn, heightIn))
	}
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "png", "jpg", "jpeg", "svg", "pdf", "eps", "tif", "tiff":
	default:
		return errors.UnsupportedFormat(ext)
	}
	if err := f.plot.Save(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save figure to %s", path)
	}
	return nil
}
