// Package viz renders dataset and model charts to image files with gonum/plot.
// The image format follows the file extension; the parent directory must exist.
package viz

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/model"
	"github.com/unamihilario/focus-flow-dashboard-pal/pkg/session"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("viz: no data")

var (
	blue  = color.RGBA{R: 46, G: 134, B: 171, A: 255}
	red   = color.RGBA{R: 220, G: 50, B: 47, A: 255}
	green = color.RGBA{R: 42, G: 161, B: 152, A: 255}
	amber = color.RGBA{R: 230, G: 159, B: 0, A: 255}

	categoryColors = map[session.FocusCategory]color.Color{
		session.Distracted:    red,
		session.SemiAttentive: amber,
		session.Attentive:     green,
	}
)

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// ActualVsPredicted scatters predictions against targets with the
// perfect-prediction diagonal; R² and MAE go in the title.
func ActualVsPredicted(actual, predicted []float64, path string) error {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return ErrNoData
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Actual vs Predicted Productivity (R² = %.3f, MAE = %.2f)",
		model.R2(actual, predicted), model.MAE(actual, predicted))
	p.X.Label.Text = "Actual Productivity Score"
	p.Y.Label.Text = "Predicted Productivity Score"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(actual))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range actual {
		pts[i].X = actual[i]
		pts[i].Y = predicted[i]
		lo = math.Min(lo, math.Min(actual[i], predicted[i]))
		hi = math.Max(hi, math.Max(actual[i], predicted[i]))
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.Color = blue
	s.Radius = vg.Points(3)
	p.Add(s)

	l, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return err
	}
	l.Color = red
	l.LineStyle.Width = vg.Points(2)
	l.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(l)
	p.Legend.Add("Perfect Prediction", l)
	p.Legend.Top = true
	p.Legend.Left = true

	return save(p, 8*vg.Inch, 6*vg.Inch, path)
}

// FocusDistribution draws one bar per focus category, in category order.
func FocusDistribution(records []session.Record, path string) error {
	if len(records) == 0 {
		return ErrNoData
	}
	counts := make(plotter.Values, len(session.Categories))
	names := make([]string, len(session.Categories))
	for i, c := range session.Categories {
		names[i] = c.String()
	}
	for _, r := range records {
		if o := r.Focus.Ordinal(); o >= 0 {
			counts[o]++
		}
	}

	p := plot.New()
	p.Title.Text = "Focus Classification Distribution"
	p.Y.Label.Text = "Sessions"
	bars, err := plotter.NewBarChart(counts, vg.Points(40))
	if err != nil {
		return err
	}
	bars.Color = blue
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	return save(p, 6*vg.Inch, 4*vg.Inch, path)
}

// ProductivityVsScroll scatters productivity against scroll events, one
// series per focus category.
func ProductivityVsScroll(records []session.Record, path string) error {
	if len(records) == 0 {
		return ErrNoData
	}
	p := plot.New()
	p.Title.Text = "Productivity vs Scroll Events"
	p.X.Label.Text = session.ColScrollEvents
	p.Y.Label.Text = session.ColProductivity

	for _, c := range session.Categories {
		var pts plotter.XYs
		for _, r := range records {
			if r.Focus == c {
				pts = append(pts, plotter.XY{X: float64(r.ScrollEvents), Y: float64(r.ProductivityScore)})
			}
		}
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		s.Color = categoryColors[c]
		s.Shape = draw.CircleGlyph{}
		s.Radius = vg.Points(2.5)
		p.Add(s)
		p.Legend.Add(c.String(), s)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	return save(p, 8*vg.Inch, 6*vg.Inch, path)
}

// FocusBySubject draws grouped bars of category counts per subject.
func FocusBySubject(records []session.Record, path string) error {
	if len(records) == 0 {
		return ErrNoData
	}
	var subjects []string
	index := map[string]int{}
	for _, r := range records {
		if _, ok := index[r.Subject]; !ok {
			index[r.Subject] = len(subjects)
			subjects = append(subjects, r.Subject)
		}
	}

	p := plot.New()
	p.Title.Text = "Focus by Subject"
	p.Y.Label.Text = "Sessions"
	w := vg.Points(18)
	for k, c := range session.Categories {
		counts := make(plotter.Values, len(subjects))
		for _, r := range records {
			if r.Focus == c {
				counts[index[r.Subject]]++
			}
		}
		bars, err := plotter.NewBarChart(counts, w)
		if err != nil {
			return err
		}
		bars.Color = categoryColors[c]
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(k-1) * w
		p.Add(bars)
		p.Legend.Add(c.String(), bars)
	}
	p.Legend.Top = true
	p.NominalX(subjects...)

	return save(p, 8*vg.Inch, 5*vg.Inch, path)
}

// FeatureImportance draws horizontal importance bars, one per feature.
func FeatureImportance(features []string, importances []float64, path string) error {
	if len(features) == 0 || len(features) != len(importances) {
		return ErrNoData
	}
	p := plot.New()
	p.Title.Text = "Decision Tree Importance"
	p.X.Label.Text = "Feature Importance"

	bars, err := plotter.NewBarChart(plotter.Values(importances), vg.Points(20))
	if err != nil {
		return err
	}
	bars.Horizontal = true
	bars.Color = blue
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(features...)

	return save(p, 8*vg.Inch, 5*vg.Inch, path)
}
