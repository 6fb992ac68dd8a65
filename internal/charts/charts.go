// Package charts renders the dashboard charts as PNG images.
package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/jengzang/crime-dashboard-go/internal/models"
)

// Image size of every chart
const (
	Width  = 10 * vg.Inch
	Height = 6 * vg.Inch
)

// ContentType of the rendered images
const ContentType = "image/png"

var (
	barBlue   = color.RGBA{R: 0, G: 89, B: 179, A: 255}
	trendGold = color.RGBA{R: 255, G: 215, B: 0, A: 255}
	trendFill = color.RGBA{R: 255, G: 215, B: 0, A: 51}
	outline   = color.RGBA{A: 255}
)

// CrimeTypes draws the top crime categories as vertical bars, in the order given
func CrimeTypes(w io.Writer, groups []models.Group) error {
	if len(groups) == 0 {
		return fmt.Errorf("%w: no crime types to chart", models.ErrEmptyInput)
	}

	p := plot.New()
	p.Title.Text = "Top Crime Types by Frequency"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Crime Type"
	p.Y.Label.Text = "Number of Cases"

	values := make(plotter.Values, len(groups))
	labels := make([]string, len(groups))
	for i, g := range groups {
		values[i] = float64(g.Sum)
		labels[i] = g.Label()
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = barBlue
	bars.LineStyle.Width = vg.Length(0)

	p.Add(plotter.NewGrid(), bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0

	return render(w, p)
}

// Trend draws cases per year as a filled line with the peak and low years marked
func Trend(w io.Writer, series models.TrendSeries) error {
	if len(series.Points) == 0 {
		return fmt.Errorf("%w: no years to chart", models.ErrEmptyInput)
	}

	p := plot.New()
	p.Title.Text = "Crime Trend Over Years"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Number of Cases"

	points := make(plotter.XYs, len(series.Points))
	for i, pt := range series.Points {
		points[i] = plotter.XY{X: float64(pt.Year), Y: float64(pt.Cases)}
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("failed to build trend line: %w", err)
	}
	line.Color = trendGold
	line.Width = vg.Points(3)
	line.FillColor = trendFill

	markers, err := plotter.NewScatter(points)
	if err != nil {
		return fmt.Errorf("failed to build trend markers: %w", err)
	}
	markers.GlyphStyle.Shape = draw.CircleGlyph{}
	markers.GlyphStyle.Color = trendGold
	markers.GlyphStyle.Radius = vg.Points(5)

	p.Add(plotter.NewGrid(), line, markers)

	var annotated plotter.XYs
	var texts []string
	if series.Peak != nil {
		annotated = append(annotated, plotter.XY{X: float64(series.Peak.Year), Y: float64(series.Peak.Cases)})
		texts = append(texts, "Peak: "+humanize.Comma(series.Peak.Cases))
	}
	if series.Low != nil && (series.Peak == nil || series.Low.Year != series.Peak.Year) {
		annotated = append(annotated, plotter.XY{X: float64(series.Low.Year), Y: float64(series.Low.Cases)})
		texts = append(texts, "Low: "+humanize.Comma(series.Low.Cases))
	}
	if len(annotated) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: annotated, Labels: texts})
		if err != nil {
			return fmt.Errorf("failed to build trend labels: %w", err)
		}
		labels.Offset = vg.Point{X: vg.Points(6), Y: vg.Points(6)}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = outline
		}
		p.Add(labels)
	}

	p.X.Tick.Marker = plot.TickerFunc(yearTicks)
	p.Y.Min = 0

	return render(w, p)
}

// Provinces draws cases per province as horizontal bars labelled with their
// share of the total, in the order given
func Provinces(w io.Writer, shares []models.ProvinceShare) error {
	if len(shares) == 0 {
		return fmt.Errorf("%w: no provinces to chart", models.ErrEmptyInput)
	}

	p := plot.New()
	p.Title.Text = "Crime Distribution by Province"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Number of Cases"

	values := make(plotter.Values, len(shares))
	names := make([]string, len(shares))
	positions := make(plotter.XYs, len(shares))
	percents := make([]string, len(shares))
	var maxCases float64
	for i, s := range shares {
		values[i] = float64(s.Cases)
		names[i] = s.Province
		positions[i] = plotter.XY{X: float64(s.Cases), Y: float64(i)}
		percents[i] = strconv.FormatFloat(s.Percent, 'f', 1, 64) + "%"
		maxCases = math.Max(maxCases, float64(s.Cases))
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Horizontal = true
	bars.Color = barBlue
	bars.LineStyle.Width = vg.Length(0)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: positions, Labels: percents})
	if err != nil {
		return fmt.Errorf("failed to build share labels: %w", err)
	}
	labels.Offset = vg.Point{X: vg.Points(10)}
	for i := range labels.TextStyle {
		labels.TextStyle[i].YAlign = draw.YCenter
	}

	p.Add(plotter.NewGrid(), bars, labels)
	p.NominalY(names...)
	p.X.Min = 0
	// room for the percentage labels
	p.X.Max = maxCases*1.15 + 1

	return render(w, p)
}

// yearTicks places one labelled tick per whole year, or every few years on
// long series.
func yearTicks(min, max float64) []plot.Tick {
	first, last := int(math.Ceil(min)), int(math.Floor(max))
	step := 1
	if span := last - first; span > 12 {
		step = (span + 11) / 12
	}
	var ticks []plot.Tick
	for y := first; y <= last; y += step {
		ticks = append(ticks, plot.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	return ticks
}

func render(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}
