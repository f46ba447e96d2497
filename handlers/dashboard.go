package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newsdesk/config"
	"newsdesk/database"
	"newsdesk/models"
)

// Dashboard renders the main page: news filtered to the user's industries,
// with an optional free-text search that overrides the industry filter.
func Dashboard(c *gin.Context) {
	userID := currentUserID(c)
	search := c.Query("search")

	industries := userIndustries(userID)
	articles, err := fetcher.ForIndustries(industries, search)
	if err != nil {
		log.WithError(err).Error("news lookup failed")
		articles = nil
	}

	var unread int64
	database.GetDB().Model(&models.Notification{}).
		Joins("JOIN alerts ON alerts.id = notifications.alert_id").
		Where("alerts.user_id = ? AND notifications.read = ?", userID, false).
		Count(&unread)

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Articles":   articles,
		"Industries": industries,
		"Search":     search,
		"Unread":     unread,
	})
}

// userIndustries merges the built-in defaults with the user's custom list.
func userIndustries(userID uint) []string {
	industries := append([]string{}, config.DefaultIndustries...)

	var custom []models.UserIndustry
	database.GetDB().Where("user_id = ?", userID).Find(&custom)

	seen := make(map[string]bool, len(industries))
	for _, ind := range industries {
		seen[ind] = true
	}
	for _, ci := range custom {
		if !seen[ci.IndustryName] {
			industries = append(industries, ci.IndustryName)
			seen[ci.IndustryName] = true
		}
	}
	return industries
}

// GetIndustries lists the industries available to the user, flagging which
// ones are built-in.
func GetIndustries(c *gin.Context) {
	userID := currentUserID(c)

	type industry struct {
		Name    string `json:"name"`
		Default bool   `json:"default"`
	}

	var out []industry
	for _, ind := range config.DefaultIndustries {
		out = append(out, industry{Name: ind, Default: true})
	}

	var custom []models.UserIndustry
	database.GetDB().Where("user_id = ?", userID).Find(&custom)
	for _, ci := range custom {
		out = append(out, industry{Name: ci.IndustryName})
	}

	c.JSON(http.StatusOK, out)
}

func AddIndustry(c *gin.Context) {
	userID := currentUserID(c)

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "industry name is required"})
		return
	}

	for _, ind := range config.DefaultIndustries {
		if ind == req.Name {
			c.JSON(http.StatusConflict, gin.H{"error": "industry already exists"})
			return
		}
	}

	entry := models.UserIndustry{
		UserID:       userID,
		IndustryName: req.Name,
		AddedDate:    time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "industry already exists"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// DeleteIndustry removes a custom industry. Built-in defaults cannot be
// removed.
func DeleteIndustry(c *gin.Context) {
	userID := currentUserID(c)
	name := c.Param("name")

	for _, ind := range config.DefaultIndustries {
		if ind == name {
			c.JSON(http.StatusForbidden, gin.H{"error": "default industries cannot be removed"})
			return
		}
	}

	res := database.GetDB().
		Where("user_id = ? AND industry_name = ?", userID, name).
		Delete(&models.UserIndustry{})
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "industry not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": name})
}
