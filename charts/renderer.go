package charts

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Image is an encoded raster chart plus its intrinsic pixel dimensions. The
// layout engine needs the dimensions up front to allocate vertical space.
type Image struct {
	PNG    []byte
	Width  int
	Height int
}

// DataURI returns the image as an embeddable data URI payload.
func (i Image) DataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(i.PNG)
}

// FinancialBars draws the financial-ratio bar chart. Bar colors encode how
// each value sits against its reference threshold. Metrics absent from data
// are skipped; an empty map falls back to neutral sample ratios so the
// section still renders.
func FinancialBars(data map[string]float64) (Image, error) {
	if len(data) == 0 {
		data = map[string]float64{
			"Current Ratio": 1.5, "ROA": 0.05, "ROE": 0.10,
			"Leverage Ratio": 1.0, "DSCR": 1.25,
		}
	}

	order := []string{"Current Ratio", "ROA", "ROE", "Leverage Ratio", "DSCR"}
	var bars []chart.Value
	for _, name := range order {
		v, ok := data[name]
		if !ok {
			continue
		}
		display := v
		if name == "ROA" || name == "ROE" {
			display = v * 100 // plotted as percent
		}
		bars = append(bars, chart.Value{
			Value: display,
			Label: name,
			Style: chart.Style{FillColor: ratioColor(name, v), StrokeColor: ratioColor(name, v)},
		})
	}
	// Unknown extra metrics keep a stable order after the known ones.
	var rest []string
	for name := range data {
		if !contains(order, name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		bars = append(bars, chart.Value{
			Value: data[name],
			Label: name,
			Style: chart.Style{FillColor: ColorPrimary, StrokeColor: ColorPrimary},
		})
	}

	bc := chart.BarChart{
		Title:      "Financial Performance Metrics",
		Width:      720,
		Height:     400,
		BarWidth:   60,
		BarSpacing: 24,
		Background: chart.Style{FillColor: ColorBackground},
		Canvas:     chart.Style{FillColor: ColorBackground},
		Bars:       bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return Image{}, fmt.Errorf("render bar chart: %w", err)
	}
	return Image{PNG: buf.Bytes(), Width: bc.Width, Height: bc.Height}, nil
}

// ratioColor applies the per-metric reference thresholds from the source
// reports: DSCR healthy at 1.25, current ratio at 1.5, leverage capped at 2.
func ratioColor(name string, v float64) drawing.Color {
	switch name {
	case "Current Ratio":
		if v >= 1.5 {
			return ColorPrimary
		} else if v >= 1.0 {
			return ColorMediumRisk
		}
		return ColorHighRisk
	case "ROA", "ROE":
		if v > 0 {
			return ColorLowRisk
		}
		return ColorHighRisk
	case "Leverage Ratio":
		if v <= 2.0 {
			return ColorPrimary
		} else if v <= 3.0 {
			return ColorMediumRisk
		}
		return ColorHighRisk
	case "DSCR":
		if v >= 1.25 {
			return ColorLowRisk
		} else if v >= 1.0 {
			return ColorMediumRisk
		}
		return ColorHighRisk
	}
	return ColorPrimary
}

// RiskDonut draws the portfolio risk distribution. A nil map renders the
// default 15/45/40 split used by the source dashboards.
func RiskDonut(dist map[string]float64) (Image, error) {
	if len(dist) == 0 {
		dist = map[string]float64{"High Risk": 15, "Medium Risk": 45, "Low Risk": 40}
	}

	colorFor := map[string]drawing.Color{
		"High Risk":   ColorHighRisk,
		"Medium Risk": ColorMediumRisk,
		"Low Risk":    ColorLowRisk,
	}

	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var values []chart.Value
	for _, k := range keys {
		if dist[k] <= 0 {
			continue
		}
		c, ok := colorFor[k]
		if !ok {
			c = ColorNeutral
		}
		values = append(values, chart.Value{
			Value: dist[k],
			Label: k,
			Style: chart.Style{FillColor: c, StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
		})
	}
	if len(values) == 0 {
		values = []chart.Value{{Value: 1, Label: "No Data", Style: chart.Style{FillColor: ColorNeutral}}}
	}

	dc := chart.DonutChart{
		Title:  "Risk Distribution",
		Width:  520,
		Height: 400,
		Values: values,
	}

	var buf bytes.Buffer
	if err := dc.Render(chart.PNG, &buf); err != nil {
		return Image{}, fmt.Errorf("render donut chart: %w", err)
	}
	return Image{PNG: buf.Bytes(), Width: dc.Width, Height: dc.Height}, nil
}

// TrendSeries is one line on the financial trends chart. Percent series are
// plotted against the secondary (right) axis.
type TrendSeries struct {
	Name    string
	Values  []float64
	Percent bool
}

// FinancialTrends draws the multi-series line chart with dual y-axes:
// currency on the left, percentages on the right. Empty input falls back to
// the sample six-quarter trend set.
func FinancialTrends(periods []string, series []TrendSeries) (Image, error) {
	usable := 0
	for _, s := range series {
		if len(s.Values) >= 2 {
			usable++
		}
	}
	if usable == 0 {
		periods = []string{"Q1 2023", "Q2 2023", "Q3 2023", "Q4 2023", "Q1 2024", "Q2 2024"}
		series = []TrendSeries{
			{Name: "Revenue", Values: []float64{10.2, 12.5, 15.1, 16.8, 18.4, 20.1}},
			{Name: "Cash Flow", Values: []float64{2.1, 2.4, 3.0, 2.8, 3.2, 3.5}},
			{Name: "Profit Margin", Values: []float64{0.12, 0.14, 0.15, 0.13, 0.16, 0.17}, Percent: true},
			{Name: "Debt Ratio", Values: []float64{0.45, 0.42, 0.38, 0.35, 0.32, 0.30}, Percent: true},
		}
	}

	if len(periods) == 0 {
		longest := 0
		for _, s := range series {
			if len(s.Values) > longest {
				longest = len(s.Values)
			}
		}
		for i := 0; i < longest; i++ {
			periods = append(periods, fmt.Sprintf("P%d", i+1))
		}
	}

	lineColors := []drawing.Color{ColorLowRisk, ColorPrimary, ColorNeutral, ColorHighRisk, ColorMediumRisk}

	xs := make([]float64, len(periods))
	ticks := make([]chart.Tick, len(periods))
	for i, p := range periods {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: p}
	}

	var chartSeries []chart.Series
	for i, s := range series {
		vals := s.Values
		if len(vals) > len(xs) {
			vals = vals[:len(xs)]
		}
		if len(vals) < 2 {
			continue
		}
		cs := chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs[:len(vals)],
			YValues: vals,
			Style: chart.Style{
				StrokeColor: lineColors[i%len(lineColors)],
				StrokeWidth: 2.5,
			},
		}
		if s.Percent {
			cs.YAxis = chart.YAxisSecondary
		}
		chartSeries = append(chartSeries, cs)
	}
	c := chart.Chart{
		Title:      "Financial Performance Trends",
		Width:      800,
		Height:     420,
		Background: chart.Style{FillColor: ColorBackground},
		Canvas:     chart.Style{FillColor: ColorBackground},
		XAxis: chart.XAxis{
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "USD (Millions)",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.1fM", f)
				}
				return ""
			},
		},
		YAxisSecondary: chart.YAxis{
			Name: "Percentage",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f*100)
				}
				return ""
			},
		},
		Series: chartSeries,
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}

	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return Image{}, fmt.Errorf("render trends chart: %w", err)
	}
	return Image{PNG: buf.Bytes(), Width: c.Width, Height: c.Height}, nil
}

// SentimentPoint is one dated news-sentiment observation. Articles controls
// the bubble size.
type SentimentPoint struct {
	Date     time.Time
	Score    float64
	Articles int
}

// NewsSentiment draws sentiment over time as a bubble scatter: y is the
// sentiment score in [-1, 1], bubble size is the article count, color is
// green for positive and red for negative scores. Empty input renders the
// sample 30-day window.
func NewsSentiment(points []SentimentPoint) (Image, error) {
	if len(points) < 2 {
		now := time.Now()
		points = points[:0]
		scores := []float64{0.72, -0.45, 0.2, 0.8, -0.3, 0.15}
		counts := []int{5, 3, 2, 4, 2, 3}
		for i := range scores {
			points = append(points, SentimentPoint{
				Date:     now.AddDate(0, 0, -30+i*5),
				Score:    scores[i],
				Articles: counts[i],
			})
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Date
		ys[i] = p.Score
	}

	c := chart.Chart{
		Title:      "News Sentiment Analysis",
		Width:      720,
		Height:     400,
		Background: chart.Style{FillColor: ColorBackground},
		Canvas:     chart.Style{FillColor: ColorBackground},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 02"),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: -1.1, Max: 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f*100)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Sentiment",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidthProvider: func(xr, yr chart.Range, index int, x, y float64) float64 {
						n := points[index].Articles
						if n < 1 {
							n = 1
						}
						return 3 + 2*float64(n)
					},
					DotColorProvider: func(xr, yr chart.Range, index int, x, y float64) drawing.Color {
						if y > 0 {
							return ColorLowRisk
						}
						return ColorHighRisk
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return Image{}, fmt.Errorf("render sentiment chart: %w", err)
	}
	return Image{PNG: buf.Bytes(), Width: c.Width, Height: c.Height}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
