package services

import (
	"testing"
	"time"

	"github.com/lim28y/Sleep-Disorder-Prediction/models"
	"github.com/lim28y/Sleep-Disorder-Prediction/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedReports(t *testing.T, db *gorm.DB, userID uint, labels []models.Label) {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, label := range labels {
		require.NoError(t, db.Create(&models.WeeklyReport{
			UserID:     userID,
			Sequence:   i + 1,
			Prediction: label,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}
}

func repeat(label models.Label, n int) []models.Label {
	out := make([]models.Label, n)
	for i := range out {
		out[i] = label
	}
	return out
}

func TestChronicFalseUnderEightReports(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewChronicService(db)

	// 7 disorder reports are never enough, regardless of content.
	seedReports(t, db, 1, repeat(models.LabelInsomnia, 7))

	chronic, err := svc.IsChronic(1)
	require.NoError(t, err)
	assert.False(t, chronic)
}

func TestChronicTrueAtSixOfEight(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewChronicService(db)

	labels := append(repeat(models.LabelInsomnia, 6), models.LabelNormal, models.LabelNormal)
	seedReports(t, db, 1, labels)

	chronic, err := svc.IsChronic(1)
	require.NoError(t, err)
	assert.True(t, chronic)
}

func TestChronicFalseAtFiveOfEight(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewChronicService(db)

	labels := append(repeat(models.LabelSleepApnea, 5), repeat(models.LabelNormal, 3)...)
	seedReports(t, db, 1, labels)

	chronic, err := svc.IsChronic(1)
	require.NoError(t, err)
	assert.False(t, chronic)
}

func TestChronicSentinelsDoNotCount(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewChronicService(db)

	// 5 disorders + 3 sentinel/unknown rows: sentinels are failures, not
	// diagnoses, so this stays below the threshold.
	labels := append(repeat(models.LabelInsomnia, 5),
		models.LabelModelError, models.LabelPredictionError, models.LabelUnknown)
	seedReports(t, db, 1, labels)

	chronic, err := svc.IsChronic(1)
	require.NoError(t, err)
	assert.False(t, chronic)
}

func TestChronicSlidesBackToFalse(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewChronicService(db)

	seedReports(t, db, 1, repeat(models.LabelInsomnia, 8))
	chronic, err := svc.IsChronic(1)
	require.NoError(t, err)
	assert.True(t, chronic)

	// Three healthier weeks push disorder rows out of the 8-window.
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.WeeklyReport{
			UserID:     1,
			Sequence:   9 + i,
			Prediction: models.LabelNormal,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}

	chronic, err = svc.IsChronic(1)
	require.NoError(t, err)
	assert.False(t, chronic)
}
