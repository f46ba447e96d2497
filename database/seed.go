package database

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"newsdesk/models"
)

// Credit ratings ordered best to worst. PD is derived from the rating's
// position in this list.
var creditRatings = []string{
	"AAA", "AA+", "AA", "AA-", "A+", "A", "A-",
	"BBB+", "BBB", "BBB-", "BB+", "BB", "BB-",
	"B+", "B", "B-", "CCC+", "CCC", "CCC-",
}

var subIndustries = map[string][]string{
	"Healthcare":   {"Physician Offices", "Specialty Clinics", "Home Health", "Hospitals", "Medical Laboratories"},
	"Solar Energy": {"Solar Electric", "PV Cell Manufacturing", "Solar EPC", "Solar Financing"},
	"Technology":   {"Enterprise Software", "Semiconductors", "Cloud Infrastructure", "Cybersecurity"},
	"AI":           {"Machine Learning Platforms", "Computer Vision", "NLP Services"},
}

var usStates = []string{"NC", "CA", "NY", "TX", "IL", "MA", "WA", "GA", "FL", "CO"}

// SeedCreditRisk populates the credit_risk table with simulated companies.
// Development/test fixture only; wired behind the dev_seed config flag and
// never reachable from a request path.
func SeedCreditRisk() error {
	db := GetRiskDB()

	var count int64
	if err := db.Model(&models.CompanyRecord{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var companies []models.CompanyRecord

	for industry, subs := range subIndustries {
		for _, sub := range subs {
			for i := 0; i < 5; i++ {
				rating := creditRatings[rng.Intn(len(creditRatings))]
				ratingIdx := ratingIndex(rating)

				// Better ratings get lower default probability.
				pdBase := float64(ratingIdx) / float64(len(creditRatings))
				pd := round4(pdBase * (0.05 + rng.Float64()*0.10))

				lgd := round2(0.3 + rng.Float64()*0.3)
				loan := round2(500000 + rng.Float64()*4500000)
				roa := round4(-0.05 + rng.Float64()*0.20)
				leverage := round2(0.2 + rng.Float64()*0.6)

				baseCoverage := float64(len(creditRatings)-ratingIdx) / float64(len(creditRatings))
				coverage := round2((baseCoverage*5 + 1) * (1 + roa*2) * (1 - leverage*0.3) * (0.8 + rng.Float64()*0.4))
				switch rating {
				case "AAA", "AA+", "AA":
					if coverage < 3.0 {
						coverage = 3.0
					}
				case "CCC+", "CCC", "CCC-":
					if coverage > 1.2 {
						coverage = 1.2
					}
				}

				companies = append(companies, models.CompanyRecord{
					Company:      fmt.Sprintf("%s_%d", sanitizeName(sub), i+1),
					Industry:     industry,
					SubIndustry:  sub,
					CreditRating: rating,
					PD:           pd,
					LGD:          lgd,
					ExpectedLoss: round2(pd * lgd * loan),
					CurrentRatio: round2(0.8 + rng.Float64()*2.2),
					ROA:          roa,
					ROE:          round4(-0.1 + rng.Float64()*0.35),
					Leverage:     leverage,
					CreditVaR:    round4(0.05 + rng.Float64()*0.15),
					LoanAmount:   loan,

					CoverageRatio: coverage,
					RatingChangeProb: round4(clamp01(
						(0.1 + rng.Float64()*0.4) * (0.8 + rng.Float64()*0.4))),
					HQState:   usStates[rng.Intn(len(usStates))],
					CreatedAt: time.Now().Format(time.RFC3339),
				})
			}
		}
	}

	return db.CreateInBatches(companies, 100).Error
}

func ratingIndex(rating string) int {
	for i, r := range creditRatings {
		if r == rating {
			return i
		}
	}
	return len(creditRatings) - 1
}

func sanitizeName(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r == ' ' {
			out[i] = '_'
		}
	}
	return string(out)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
