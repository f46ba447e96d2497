package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"newsdesk/database"
	"newsdesk/models"
	"newsdesk/tasks"
)

type alertRequest struct {
	Company   string  `json:"company" binding:"required"`
	Metric    string  `json:"metric" binding:"required"`
	Condition string  `json:"condition" binding:"required"`
	Threshold float64 `json:"threshold"`

	NotifyEmail     bool   `json:"notify_email"`
	NotifySMS       bool   `json:"notify_sms"`
	NotifyDashboard bool   `json:"notify_dashboard"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
}

// CreateAlert registers a metric watch and queues an immediate first check.
func CreateAlert(c *gin.Context) {
	userID := currentUserID(c)

	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company, metric and condition are required"})
		return
	}
	switch req.Condition {
	case "above", "below", "equals":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "condition must be above, below or equals"})
		return
	}

	alert := models.Alert{
		UserID:          userID,
		CompanyName:     req.Company,
		Metric:          req.Metric,
		Condition:       req.Condition,
		Threshold:       req.Threshold,
		NotifyEmail:     req.NotifyEmail,
		NotifySMS:       req.NotifySMS,
		NotifyDashboard: req.NotifyDashboard,
		Email:           req.Email,
		Phone:           req.Phone,
		CreatedAt:       time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := database.GetDB().Create(&alert).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save alert"})
		return
	}

	queue.Submit(tasks.JobCheckAlert, tasks.Args{"alert_id": alert.ID})
	c.JSON(http.StatusCreated, alert)
}

// GetAlerts lists the user's alerts.
func GetAlerts(c *gin.Context) {
	userID := currentUserID(c)

	var alerts []models.Alert
	database.GetDB().Where("user_id = ?", userID).Order("created_at DESC").Find(&alerts)
	c.JSON(http.StatusOK, alerts)
}

// DeleteAlert removes an alert the user owns, along with its notifications.
func DeleteAlert(c *gin.Context) {
	userID := currentUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	res := database.GetDB().
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Alert{})
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}
	database.GetDB().Where("alert_id = ?", id).Delete(&models.Notification{})
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// GetNotifications lists the user's dashboard notifications, newest first.
func GetNotifications(c *gin.Context) {
	userID := currentUserID(c)

	var notifications []models.Notification
	database.GetDB().
		Joins("JOIN alerts ON alerts.id = notifications.alert_id").
		Where("alerts.user_id = ?", userID).
		Order("notifications.created_at DESC").
		Limit(50).
		Find(&notifications)
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead flags one notification as read.
func MarkNotificationRead(c *gin.Context) {
	userID := currentUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	res := database.GetDB().Model(&models.Notification{}).
		Where("notifications.id = ? AND alert_id IN (?)", id,
			database.GetDB().Model(&models.Alert{}).Select("id").Where("user_id = ?", userID)).
		Update("read", true)
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": id})
}
