package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lim28y/Sleep-Disorder-Prediction/middleware"
	"github.com/lim28y/Sleep-Disorder-Prediction/models"
	"github.com/lim28y/Sleep-Disorder-Prediction/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LogHandler owns the daily-log endpoints. All collaborators are injected:
// the handler carries no package-level state.
type LogHandler struct {
	DB         *gorm.DB
	Classifier *services.Classifier
	Weekly     *services.WeeklyService
	Advice     *services.AdviceService
	Chronic    *services.ChronicService
	Logger     *zap.Logger
}

type submitLogInput struct {
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	Gender     int     `json:"gender" validate:"gte=0,lte=1"`
	Age        int     `json:"age" validate:"gte=1,lte=120"`
	Duration   float64 `json:"duration" validate:"gte=0,lte=24"`
	Quality    int     `json:"quality" validate:"gte=0,lte=10"`
	Activity   int     `json:"activity" validate:"gte=0,lte=500"`
	Stress     int     `json:"stress" validate:"gte=0,lte=10"`
	BMI        int     `json:"bmi" validate:"gte=0,lte=2"`
	BPSys      int     `json:"bp_sys" validate:"gte=50,lte=260"`
	BPDia      int     `json:"bp_dia" validate:"gte=30,lte=200"`
	HeartRate  int     `json:"heart_rate" validate:"gte=20,lte=260"`
	DailySteps int     `json:"daily_steps" validate:"gte=0"`
}

// SubmitLog persists one daily log, classifies it, restores the
// weekly-report invariant, and generates the daily coaching tip. Report
// persistence happens before advice generation, so a slow or broken advice
// backend can never block the write path.
func (h *LogHandler) SubmitLog(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input submitLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if err := middleware.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logDate, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return
	}

	log := models.SleepLog{
		UserID:        user.ID,
		LogDate:       logDate,
		Gender:        input.Gender,
		Age:           input.Age,
		BMICategory:   input.BMI,
		SleepDuration: input.Duration,
		QualitySleep:  input.Quality,
		ActivityLevel: input.Activity,
		StressLevel:   input.Stress,
		BPSystolic:    input.BPSys,
		BPDiastolic:   input.BPDia,
		HeartRate:     input.HeartRate,
		DailySteps:    input.DailySteps,
	}

	if err := h.DB.Create(&log).Error; err != nil {
		h.Logger.Error("sleep_log_insert_failed",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save log"})
		return
	}

	ctx := c.Request.Context()

	prediction := models.LabelUnknown
	vec, err := services.BuildFeatures(services.RecordFromLog(log))
	if err != nil {
		// Validation should make this unreachable, but a partial vector
		// must never reach the classifier.
		h.Logger.Error("feature_extraction_failed",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
	} else {
		prediction = h.Classifier.ClassifyOrSentinel(ctx, vec, "daily")
	}

	reports, err := h.Weekly.GenerateDueReports(ctx, user.ID)
	if err != nil {
		h.Logger.Error("weekly_report_generation_failed",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate weekly report"})
		return
	}

	dailyTip := h.Advice.DailyTip(ctx, log, prediction)

	if err := middleware.InvalidateUserCache(user.ID); err != nil {
		h.Logger.Warn("cache_invalidation_failed",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
	}

	response := gin.H{
		"daily_tip":    dailyTip,
		"prediction":   prediction,
		"weekly_ready": len(reports) > 0,
		"analysis":     nil,
	}
	if len(reports) > 0 {
		latest := reports[len(reports)-1]
		response["analysis"] = gin.H{
			"prediction": latest.Prediction,
			"tips":       "Weekly Summary Saved.",
		}
	}

	c.JSON(http.StatusOK, response)
}
