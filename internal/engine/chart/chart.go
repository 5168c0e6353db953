// Package chart renders the prediction confidence bar chart.
package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	title    = "Prediction Confidence"
	width    = 6 * vg.Inch
	height   = 4 * vg.Inch
	barWidth = 1.5 * vg.Inch
)

var (
	green = color.RGBA{R: 0x00, G: 0x80, B: 0x00, A: 0xff}
	red   = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
)

// Bar is one labelled bar of the chart.
type Bar struct {
	Label string
	Value float64
	Color color.Color
}

// ConfidenceBars maps [p_healthy, p_disease] to the two chart bars.
func ConfidenceBars(probs [2]float64) []Bar {
	return []Bar{
		{Label: "Healthy", Value: probs[0], Color: green},
		{Label: "Disease", Value: probs[1], Color: red},
	}
}

// Render draws the confidence chart for probs as a PNG. The y-axis is fixed
// to [0, 1] regardless of the values.
func Render(probs [2]float64) ([]byte, error) {
	return RenderBars(ConfidenceBars(probs))
}

// RenderBars draws one bar per entry on a [0, 1] y-axis.
func RenderBars(bars []Bar) ([]byte, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Probability"

	names := make([]string, len(bars))
	for i, b := range bars {
		bc, err := plotter.NewBarChart(plotter.Values{b.Value}, barWidth)
		if err != nil {
			return nil, fmt.Errorf("chart: bar %q: %w", b.Label, err)
		}
		bc.XMin = float64(i)
		bc.Color = b.Color
		bc.LineStyle.Width = 0
		p.Add(bc)
		names[i] = b.Label
	}
	p.NominalX(names...)

	// Axis ranges are widened by Add; pin them afterwards.
	p.Y.Min, p.Y.Max = 0, 1
	p.X.Min, p.X.Max = -0.5, float64(len(bars))-0.5

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("chart: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Base64 encodes chart bytes for inline embedding in HTML.
func Base64(png []byte) string {
	return base64.StdEncoding.EncodeToString(png)
}
