package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"newsdesk/database"
	"newsdesk/models"
	"newsdesk/report"
	"newsdesk/tasks"
)

type generateReportRequest struct {
	Company  string   `json:"company" binding:"required"`
	Sections []string `json:"sections"`
	Format   string   `json:"format"`
	Template string   `json:"template"`
	Layout   string   `json:"layout"`
}

// GenerateReport runs the report pipeline synchronously and returns the
// artifact metadata. Errors map onto status codes: bad input 400, unknown
// company 404, anything else 500.
func GenerateReport(c *gin.Context) {
	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company is required"})
		return
	}

	format := req.Format
	if format == "" {
		format = "pdf"
	}

	res, err := generator.Generate(c.Request.Context(), report.Request{
		Company:  req.Company,
		Sections: req.Sections,
		Format:   report.Format(format),
		Template: req.Template,
		Layout:   report.Layout(req.Layout),
	})
	if err != nil {
		switch {
		case errors.Is(err, report.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, report.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			log.WithError(err).Error("report generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		}
		return
	}

	sections, _ := json.Marshal(req.Sections)
	record := models.ReportRecord{
		ID:          uuid.NewString(),
		UserID:      currentUserID(c),
		CompanyName: req.Company,
		Sections:    string(sections),
		Format:      string(res.Format),
		FilePath:    res.Path,
		Filename:    res.Filename,
		CreatedAt:   res.GeneratedAt.Format("2006-01-02 15:04:05"),
	}
	if err := database.GetDB().Create(&record).Error; err != nil {
		log.WithError(err).Error("report record write failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           record.ID,
		"filename":     res.Filename,
		"format":       res.Format,
		"generated_at": res.GeneratedAt.Format(time.RFC3339),
		"download_url": "/api/reports/download/" + res.Filename,
	})
}

// GetReports lists the user's past ad-hoc generations, newest first.
func GetReports(c *gin.Context) {
	userID := currentUserID(c)

	var records []models.ReportRecord
	database.GetDB().Where("user_id = ?", userID).Order("created_at DESC").Limit(100).Find(&records)
	c.JSON(http.StatusOK, records)
}

// DownloadReport streams a generated artifact. The filename is restricted
// to a bare base name so the handler can never serve files outside the
// report directory.
func DownloadReport(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
		return
	}

	path := filepath.Join(cfg.ReportDir, filename)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", report.ContentTypeFor(filename))
	c.File(path)
}

type scheduleReportRequest struct {
	Company       string   `json:"company" binding:"required"`
	Sections      []string `json:"sections" binding:"required"`
	Schedule      string   `json:"schedule" binding:"required"`
	DeliveryEmail bool     `json:"delivery_email"`
	Email         string   `json:"email"`
}

// CreateScheduledReport registers a subscription and queues its first run.
func CreateScheduledReport(c *gin.Context) {
	userID := currentUserID(c)

	var req scheduleReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company, sections and schedule are required"})
		return
	}
	switch req.Schedule {
	case "once", "daily", "weekly", "monthly":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "schedule must be once, daily, weekly or monthly"})
		return
	}

	sections, err := json.Marshal(req.Sections)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sections"})
		return
	}

	sched := models.ScheduledReport{
		ReportID:      uuid.NewString(),
		UserID:        userID,
		CompanyName:   req.Company,
		Sections:      string(sections),
		Schedule:      req.Schedule,
		DeliveryEmail: req.DeliveryEmail,
		Email:         req.Email,
		CreatedAt:     time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := database.GetDB().Create(&sched).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save schedule"})
		return
	}

	queue.Submit(tasks.JobGenerateReport, tasks.Args{"report_id": sched.ReportID})
	c.JSON(http.StatusCreated, sched)
}

// GetScheduledReports lists the user's subscriptions.
func GetScheduledReports(c *gin.Context) {
	userID := currentUserID(c)

	var reports []models.ScheduledReport
	database.GetDB().Where("user_id = ?", userID).Order("created_at DESC").Find(&reports)
	c.JSON(http.StatusOK, reports)
}

// DeleteScheduledReport removes a subscription the user owns.
func DeleteScheduledReport(c *gin.Context) {
	userID := currentUserID(c)
	id := c.Param("id")

	res := database.GetDB().
		Where("report_id = ? AND user_id = ?", id, userID).
		Delete(&models.ScheduledReport{})
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "scheduled report not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// GetReportHistory lists generation attempts for one subscription.
func GetReportHistory(c *gin.Context) {
	userID := currentUserID(c)
	id := c.Param("id")

	var sched models.ScheduledReport
	if err := database.GetDB().
		Where("report_id = ? AND user_id = ?", id, userID).
		First(&sched).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "scheduled report not found"})
		return
	}

	var history []models.ReportHistory
	database.GetDB().Where("report_id = ?", id).Order("generated_at DESC").Find(&history)
	c.JSON(http.StatusOK, history)
}
