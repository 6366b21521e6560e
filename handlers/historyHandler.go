package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lim28y/Sleep-Disorder-Prediction/middleware"
	"github.com/lim28y/Sleep-Disorder-Prediction/models"
	"go.uber.org/zap"
)

// History returns every log for the user, newest first, plus the 4 most
// recent weekly reports and the chronic-alert flag.
func (h *LogHandler) History(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var logs []models.SleepLog
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("log_date DESC, id DESC").
		Find(&logs).Error; err != nil {
		h.Logger.Error("history_logs_query_failed",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load logs"})
		return
	}

	var reports []models.WeeklyReport
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Limit(4).
		Find(&reports).Error; err != nil {
		h.Logger.Error("history_reports_query_failed",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load weekly reports"})
		return
	}

	chronic, err := h.Chronic.IsChronic(user.ID)
	if err != nil {
		h.Logger.Error("chronic_check_failed",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		chronic = false
	}

	c.JSON(http.StatusOK, gin.H{
		"username":       user.Username,
		"logs":           logs,
		"weekly_reports": reports,
		"chronic_alert":  chronic,
	})
}

// Dashboard returns the landing-page data: the username, demographic
// defaults pulled from the latest log so the submission form can prefill
// them, and the chronic-alert flag.
func (h *LogHandler) Dashboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var defaults *gin.H
	var last models.SleepLog
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("log_date DESC, id DESC").
		First(&last).Error; err == nil {
		defaults = &gin.H{
			"age":    last.Age,
			"gender": last.Gender,
			"bmi":    last.BMICategory,
		}
	}

	chronic, err := h.Chronic.IsChronic(user.ID)
	if err != nil {
		h.Logger.Error("chronic_check_failed",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		chronic = false
	}

	c.JSON(http.StatusOK, gin.H{
		"username":      user.Username,
		"defaults":      defaults,
		"chronic_alert": chronic,
	})
}
