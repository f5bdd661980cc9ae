// Package report renders evaluation artifacts as PNG charts: per-model and
// combined ROC curves, and the random forest feature importances.
package report

import (
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/strokeml/strokeml/metrics"
	"github.com/strokeml/strokeml/pkg/errors"
)

// SaveROCPlot writes a single-model ROC curve with the chance diagonal.
func SaveROCPlot(curve []metrics.ROCPoint, title, filename string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	if err := addCurve(p, curve, title); err != nil {
		return err
	}
	if err := addDiagonal(p); err != nil {
		return err
	}

	if err := p.Save(4*vg.Inch, 4*vg.Inch, filename); err != nil {
		return errors.Wrapf(err, "failed to save ROC plot %s", filename)
	}
	return nil
}

// SaveCombinedROCPlot writes all model curves on one canvas, keyed by name.
// Curves are drawn in the order of names.
func SaveCombinedROCPlot(curves map[string][]metrics.ROCPoint, names []string, filename string) error {
	p := plot.New()
	p.Title.Text = "ROC curves"
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = false

	for _, name := range names {
		if err := addCurve(p, curves[name], name); err != nil {
			return err
		}
	}
	if err := addDiagonal(p); err != nil {
		return err
	}

	if err := p.Save(4*vg.Inch, 4*vg.Inch, filename); err != nil {
		return errors.Wrapf(err, "failed to save ROC plot %s", filename)
	}
	return nil
}

func addCurve(p *plot.Plot, curve []metrics.ROCPoint, name string) error {
	pts := make(plotter.XYs, len(curve))
	for i, pt := range curve {
		pts[i] = plotter.XY{X: pt.FPR, Y: pt.TPR}
	}

	l, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "failed to build ROC line")
	}
	l.LineStyle.Width = vg.Points(1.5)
	p.Add(l)
	p.Legend.Add(name, l)
	return nil
}

func addDiagonal(p *plot.Plot) error {
	l, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return errors.Wrap(err, "failed to build diagonal")
	}
	l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(l)
	return nil
}

// SaveImportancePlot writes a bar chart of feature importances, one bar per
// feature name.
func SaveImportancePlot(names []string, importances []float64, filename string) error {
	if len(names) != len(importances) {
		return errors.NewDimensionError("SaveImportancePlot", len(names), len(importances), 1)
	}

	p := plot.New()
	p.Title.Text = "Random forest feature importances"
	p.Y.Label.Text = "Importance"

	bars, err := plotter.NewBarChart(plotter.Values(importances), vg.Points(18))
	if err != nil {
		return errors.Wrap(err, "failed to build bar chart")
	}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.9
	p.X.Tick.Label.XAlign = -0.8
	p.X.Tick.Label.YAlign = -0.4

	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return errors.Wrapf(err, "failed to save importance plot %s", filename)
	}
	return nil
}

// PNGPath joins dir and name with a .png extension.
func PNGPath(dir, name string) string {
	return filepath.Join(dir, name+".png")
}
