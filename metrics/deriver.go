// Package metrics derives credit-risk figures from raw company records.
// All functions are pure; defaults for missing inputs are centralized here
// instead of being scattered through the rendering code.
package metrics

import (
	"math"

	"newsdesk/models"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskThresholds are the PD cutoffs for the low and medium buckets. Business
// constants with no cited source; kept overridable rather than inlined.
var RiskThresholds = struct {
	Low    float64
	Medium float64
}{Low: 0.01, Medium: 0.05}

// LGDTiers maps a risk level to its loss-given-default constant.
var LGDTiers = map[RiskLevel]float64{
	RiskLow:    0.35,
	RiskMedium: 0.45,
	RiskHigh:   0.55,
}

// DefaultLoanAmount substitutes for a missing loan amount.
const DefaultLoanAmount = 1000000.0

// DerivedMetrics is computed fresh for each report request and discarded
// after rendering.
type DerivedMetrics struct {
	RiskLevel    RiskLevel
	LGD          float64
	ExpectedLoss float64
	DSCR         float64
	LoanAmount   float64

	// Placeholder debt-service decomposition: annual debt service is
	// approximated as 12% of the loan amount, operating income backed out
	// from the coverage ratio. Not a financial model.
	NetOperatingIncome float64
	TotalDebtService   float64
}

// Risk classifies a probability of default. Buckets are inclusive on their
// lower bound: PD of exactly 0.01 is medium, 0.05 is high.
func Risk(pd float64) RiskLevel {
	switch {
	case pd < RiskThresholds.Low:
		return RiskLow
	case pd < RiskThresholds.Medium:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// LGD returns the tiered loss-given-default constant for a risk level.
func LGD(level RiskLevel) float64 {
	return LGDTiers[level]
}

// ExpectedLoss is PD x LGD x exposure. A non-positive loan amount falls back
// to DefaultLoanAmount.
func ExpectedLoss(pd, lgd, loanAmount float64) float64 {
	if loanAmount <= 0 {
		loanAmount = DefaultLoanAmount
	}
	return pd * lgd * loanAmount
}

// DSCR returns the debt service coverage ratio. The source column is used
// when populated; otherwise the fallback (1+ROA)/(leverage+0.1) applies,
// rounded to 2 decimals. The 0.1 offset keeps the ratio finite when
// leverage is zero.
func DSCR(coverage, roa, leverage float64) float64 {
	if coverage > 0 {
		return coverage
	}
	return math.Round((1+roa)/(leverage+0.1)*100) / 100
}

// Derive computes the full metric set for one company record.
func Derive(rec models.CompanyRecord) DerivedMetrics {
	loan := rec.LoanAmount
	if loan <= 0 {
		loan = DefaultLoanAmount
	}
	level := Risk(rec.PD)
	lgd := LGD(level)
	dscr := DSCR(rec.CoverageRatio, rec.ROA, rec.Leverage)
	tds := loan * 0.12
	return DerivedMetrics{
		RiskLevel:          level,
		LGD:                lgd,
		ExpectedLoss:       ExpectedLoss(rec.PD, lgd, rec.LoanAmount),
		DSCR:               dscr,
		LoanAmount:         loan,
		NetOperatingIncome: dscr * tds,
		TotalDebtService:   tds,
	}
}
