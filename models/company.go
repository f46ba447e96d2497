package models

// CompanyRecord is a raw row from the credit_risk table. Read-only input for
// report generation; derived fields live in the metrics package.
type CompanyRecord struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Company      string  `json:"company" gorm:"column:Company;index"`
	Industry     string  `json:"industry" gorm:"column:Industry"`
	SubIndustry  string  `json:"sub_industry" gorm:"column:Sub-Industry"`
	CreditRating string  `json:"credit_rating" gorm:"column:Credit Rating"`
	PD           float64 `json:"probability_of_default" gorm:"column:Probability of Default"`
	LGD          float64 `json:"loss_given_default" gorm:"column:Loss Given Default"`
	ExpectedLoss float64 `json:"expected_loss" gorm:"column:Expected Loss"`
	CurrentRatio float64 `json:"current_ratio" gorm:"column:Current Ratio"`
	ROA          float64 `json:"roa" gorm:"column:ROA"`
	ROE          float64 `json:"roe" gorm:"column:ROE"`
	Leverage     float64 `json:"leverage_ratio" gorm:"column:Leverage Ratio"`
	CreditVaR    float64 `json:"credit_var" gorm:"column:Credit VaR"`
	LoanAmount   float64 `json:"loan_amount" gorm:"column:Loan Amount"`
	// Source alias for DSCR; see metrics.Derive for the fallback formula.
	CoverageRatio    float64 `json:"financial_coverage_ratio" gorm:"column:Financial Coverage Ratio"`
	RatingChangeProb float64 `json:"rating_change_prob" gorm:"column:Probability of Credit Rating Change"`
	HQState          string  `json:"hq_state" gorm:"column:HQ State"`
	CreatedAt        string  `json:"created_at" gorm:"column:created_at"`
}

func (CompanyRecord) TableName() string {
	return "credit_risk"
}
