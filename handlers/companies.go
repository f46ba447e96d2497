package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"newsdesk/database"
	"newsdesk/metrics"
	"newsdesk/models"
)

// GetCompanies lists company records with optional industry, sub-industry,
// rating and risk-level filters.
func GetCompanies(c *gin.Context) {
	db := database.GetRiskDB()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	industry := c.Query("industry")
	subIndustry := c.Query("sub_industry")
	rating := c.Query("rating")
	riskLevel := c.Query("risk_level")

	query := db.Model(&models.CompanyRecord{})
	if industry != "" {
		query = query.Where("Industry = ?", industry)
	}
	if subIndustry != "" {
		query = query.Where("`Sub-Industry` = ?", subIndustry)
	}
	if rating != "" {
		query = query.Where("`Credit Rating` = ?", rating)
	}

	// risk level is derived, not stored, so it maps back to PD ranges
	switch riskLevel {
	case "low":
		query = query.Where("`Probability of Default` < ?", metrics.RiskThresholds.Low)
	case "medium":
		query = query.Where("`Probability of Default` >= ? AND `Probability of Default` < ?",
			metrics.RiskThresholds.Low, metrics.RiskThresholds.Medium)
	case "high":
		query = query.Where("`Probability of Default` >= ?", metrics.RiskThresholds.Medium)
	}

	var records []models.CompanyRecord
	if err := query.Order("Company").Limit(limit).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetCompany returns one record plus its derived metrics.
func GetCompany(c *gin.Context) {
	name := c.Param("name")

	store := database.CompanyStore{DB: database.GetRiskDB()}
	rec, err := store.GetCompanyRecord(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		return
	}

	dm := metrics.Derive(*rec)
	c.JSON(http.StatusOK, gin.H{
		"company": rec,
		"derived": gin.H{
			"risk_level":    dm.RiskLevel,
			"lgd":           dm.LGD,
			"expected_loss": dm.ExpectedLoss,
			"dscr":          dm.DSCR,
		},
	})
}

// GetCompanyStats aggregates the portfolio: totals per risk bucket, average
// PD and the industry breakdown.
func GetCompanyStats(c *gin.Context) {
	db := database.GetRiskDB()

	var total, low, medium, high int64
	var avgPD float64

	db.Model(&models.CompanyRecord{}).Count(&total)
	db.Model(&models.CompanyRecord{}).
		Where("`Probability of Default` < ?", metrics.RiskThresholds.Low).Count(&low)
	db.Model(&models.CompanyRecord{}).
		Where("`Probability of Default` >= ? AND `Probability of Default` < ?",
			metrics.RiskThresholds.Low, metrics.RiskThresholds.Medium).Count(&medium)
	db.Model(&models.CompanyRecord{}).
		Where("`Probability of Default` >= ?", metrics.RiskThresholds.Medium).Count(&high)
	db.Model(&models.CompanyRecord{}).Select("AVG(`Probability of Default`)").Scan(&avgPD)

	type industryCount struct {
		Industry string `json:"industry"`
		Count    int64  `json:"count"`
	}
	var industries []industryCount
	db.Model(&models.CompanyRecord{}).
		Select("Industry as industry, COUNT(*) as count").
		Group("Industry").
		Order("count DESC").
		Scan(&industries)

	c.JSON(http.StatusOK, gin.H{
		"total":       total,
		"low_risk":    low,
		"medium_risk": medium,
		"high_risk":   high,
		"avg_pd":      avgPD,
		"industries":  industries,
	})
}

// GetGeoDistribution aggregates companies and average PD by HQ state for
// the map view.
func GetGeoDistribution(c *gin.Context) {
	db := database.GetRiskDB()

	type stateAgg struct {
		State string  `json:"state"`
		Count int64   `json:"count"`
		AvgPD float64 `json:"avg_pd"`
	}
	var states []stateAgg
	err := db.Model(&models.CompanyRecord{}).
		Select("`HQ State` as state, COUNT(*) as count, AVG(`Probability of Default`) as avg_pd").
		Where("`HQ State` <> ''").
		Group("`HQ State`").
		Order("count DESC").
		Scan(&states).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, states)
}
