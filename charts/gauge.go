package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RiskGauge draws the probability-of-default dial: a half-circle with three
// fixed color bands (0-1% green, 1-5% amber, 5-10% red) and a needle at the
// company's PD. Values outside the 0-10% range pin to the nearest end.
func RiskGauge(pd float64) (Image, error) {
	const (
		width  = 520
		height = 330
	)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	gc, err := drawing.NewRasterGraphicContext(img)
	if err != nil {
		return Image{}, fmt.Errorf("risk gauge: %w", err)
	}

	cx, cy := float64(width)/2, float64(height)*0.78
	radius := float64(height) * 0.55
	bandWidth := 28.0

	// value 0..10 maps onto the top semicircle, left to right
	value := pd * 100
	if value < 0 {
		value = 0
	}
	if value > 10 {
		value = 10
	}

	bands := []struct {
		from, to float64 // gauge units
		col      drawing.Color
	}{
		{0, 1, ColorLowRisk},
		{1, 5, ColorMediumRisk},
		{5, 10, ColorHighRisk},
	}

	gc.SetLineWidth(bandWidth)
	for _, b := range bands {
		start := math.Pi + b.from/10*math.Pi
		sweep := (b.to - b.from) / 10 * math.Pi
		gc.SetStrokeColor(b.col)
		gc.ArcTo(cx, cy, radius, radius, start, sweep)
		gc.Stroke()
	}

	// needle
	angle := math.Pi + value/10*math.Pi
	tipX := cx + (radius-bandWidth/2-6)*math.Cos(angle)
	tipY := cy + (radius-bandWidth/2-6)*math.Sin(angle)
	gc.SetStrokeColor(ColorPrimary)
	gc.SetLineWidth(4)
	gc.MoveTo(cx, cy)
	gc.LineTo(tipX, tipY)
	gc.Stroke()

	// hub
	gc.SetFillColor(ColorPrimary)
	gc.ArcTo(cx, cy, 8, 8, 0, 2*math.Pi)
	gc.Close()
	gc.Fill()

	// value label under the hub
	if font, ferr := chart.GetDefaultFont(); ferr == nil {
		label := fmt.Sprintf("PD %.2f%%", pd*100)
		gc.SetFont(font)
		gc.SetFontSize(20)
		gc.SetFillColor(ColorText)
		_, _ = gc.FillStringAt(label, cx-float64(len(label))*5.2, cy+34)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Image{}, fmt.Errorf("encode risk gauge: %w", err)
	}
	return Image{PNG: buf.Bytes(), Width: width, Height: height}, nil
}
