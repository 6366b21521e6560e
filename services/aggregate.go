package services

import (
	"math"

	"github.com/lim28y/Sleep-Disorder-Prediction/models"
)

const windowSize = 7

// AveragedProfile is the 7-log arithmetic mean packaged in a
// feature-vector-compatible shape. Demographics come verbatim from the
// newest log in the window, not averaged.
type AveragedProfile struct {
	Gender        int
	Age           int
	BMICategory   int
	SleepDuration float64
	QualitySleep  int
	ActivityLevel int
	StressLevel   int
	HeartRate     int
	BPSystolic    int
	BPDiastolic   int
	DailySteps    int
}

// Aggregate averages the 7 most recent logs, ordered newest-first. Duration
// keeps one decimal; every other averaged field is rounded
// half-away-from-zero to the nearest integer.
func Aggregate(logs []models.SleepLog) (AveragedProfile, error) {
	if len(logs) < windowSize {
		return AveragedProfile{}, ErrInsufficientData
	}
	logs = logs[:windowSize]

	var (
		duration float64
		quality  int
		activity int
		stress   int
		steps    int
		heart    int
		sys      int
		dia      int
	)
	for _, l := range logs {
		duration += l.SleepDuration
		quality += l.QualitySleep
		activity += l.ActivityLevel
		stress += l.StressLevel
		steps += l.DailySteps
		heart += l.HeartRate
		sys += l.BPSystolic
		dia += l.BPDiastolic
	}

	latest := logs[0]
	return AveragedProfile{
		Gender:        latest.Gender,
		Age:           latest.Age,
		BMICategory:   latest.BMICategory,
		SleepDuration: round1(duration / windowSize),
		QualitySleep:  meanInt(quality),
		ActivityLevel: meanInt(activity),
		StressLevel:   meanInt(stress),
		DailySteps:    meanInt(steps),
		HeartRate:     meanInt(heart),
		BPSystolic:    meanInt(sys),
		BPDiastolic:   meanInt(dia),
	}, nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func meanInt(total int) int {
	return int(math.Round(float64(total) / windowSize))
}
