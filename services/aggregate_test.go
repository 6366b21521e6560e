package services

import (
	"testing"

	"github.com/lim28y/Sleep-Disorder-Prediction/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func windowOfSeven() []models.SleepLog {
	durations := []float64{8, 7, 6, 8, 7, 6, 8}
	logs := make([]models.SleepLog, 7)
	for i, d := range durations {
		logs[i] = models.SleepLog{
			Gender:        1,
			Age:           30 + i, // only the newest should survive
			BMICategory:   i % 3,
			SleepDuration: d,
			QualitySleep:  6 + i%3,
			ActivityLevel: 40 + i,
			StressLevel:   3 + i%2,
			HeartRate:     68 + i,
			BPSystolic:    118 + i,
			BPDiastolic:   78 + i,
			DailySteps:    7000 + 100*i,
		}
	}
	return logs
}

func TestAggregateDurationRounding(t *testing.T) {
	profile, err := Aggregate(windowOfSeven())
	require.NoError(t, err)

	// mean of [8,7,6,8,7,6,8] is 7.142857..., rounded to one decimal
	assert.Equal(t, 7.1, profile.SleepDuration)
}

func TestAggregateDemographicsFromNewest(t *testing.T) {
	logs := windowOfSeven()
	profile, err := Aggregate(logs)
	require.NoError(t, err)

	assert.Equal(t, logs[0].Gender, profile.Gender)
	assert.Equal(t, logs[0].Age, profile.Age)
	assert.Equal(t, logs[0].BMICategory, profile.BMICategory)
}

func TestAggregateIntegerRounding(t *testing.T) {
	logs := make([]models.SleepLog, 7)
	for i := range logs {
		logs[i] = models.SleepLog{
			SleepDuration: 7,
			QualitySleep:  7, // 49/7 = 7 exactly
			StressLevel:   5,
			HeartRate:     70,
			BPSystolic:    120,
			BPDiastolic:   80,
			DailySteps:    1000,
			ActivityLevel: 50,
		}
	}
	logs[0].StressLevel = 6
	logs[1].QualitySleep = 10

	profile, err := Aggregate(logs)
	require.NoError(t, err)
	assert.Equal(t, 5, profile.StressLevel)  // 36/7 = 5.14
	assert.Equal(t, 7, profile.QualitySleep) // 52/7 = 7.43
}

func TestAggregateUsesOnlyFirstSeven(t *testing.T) {
	logs := append(windowOfSeven(), models.SleepLog{SleepDuration: 0})
	profile, err := Aggregate(logs)
	require.NoError(t, err)
	assert.Equal(t, 7.1, profile.SleepDuration)
}

func TestAggregateInsufficientData(t *testing.T) {
	_, err := Aggregate(windowOfSeven()[:6])
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = Aggregate(nil)
	require.ErrorIs(t, err, ErrInsufficientData)
}
