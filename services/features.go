package services

import (
	"fmt"

	"github.com/lim28y/Sleep-Disorder-Prediction/models"
)

// FeatureVector is the fixed 11-field numeric encoding the trained model
// was fit on. The order is a binding contract with the model and must never
// change without retraining.
type FeatureVector [11]float64

// FeatureRecord is the common shape both classification paths reduce to:
// a raw daily log or a 7-day averaged profile.
type FeatureRecord struct {
	Gender        int
	Age           int
	SleepDuration float64
	QualitySleep  int
	ActivityLevel int
	StressLevel   int
	BMICategory   int
	HeartRate     int
	BPSystolic    int
	BPDiastolic   int
	DailySteps    int
}

func RecordFromLog(l models.SleepLog) FeatureRecord {
	return FeatureRecord{
		Gender:        l.Gender,
		Age:           l.Age,
		SleepDuration: l.SleepDuration,
		QualitySleep:  l.QualitySleep,
		ActivityLevel: l.ActivityLevel,
		StressLevel:   l.StressLevel,
		BMICategory:   l.BMICategory,
		HeartRate:     l.HeartRate,
		BPSystolic:    l.BPSystolic,
		BPDiastolic:   l.BPDiastolic,
		DailySteps:    l.DailySteps,
	}
}

func RecordFromProfile(p AveragedProfile) FeatureRecord {
	return FeatureRecord{
		Gender:        p.Gender,
		Age:           p.Age,
		SleepDuration: p.SleepDuration,
		QualitySleep:  p.QualitySleep,
		ActivityLevel: p.ActivityLevel,
		StressLevel:   p.StressLevel,
		BMICategory:   p.BMICategory,
		HeartRate:     p.HeartRate,
		BPSystolic:    p.BPSystolic,
		BPDiastolic:   p.BPDiastolic,
		DailySteps:    p.DailySteps,
	}
}

// BuildFeatures maps a record into the model's feature order:
// gender, age, duration, quality, activity, stress, bmi, heart rate,
// systolic, diastolic, daily steps. It is the single source of truth for
// that order; daily and weekly classification both route through here.
func BuildFeatures(r FeatureRecord) (FeatureVector, error) {
	if err := validateRecord(r); err != nil {
		return FeatureVector{}, fmt.Errorf("%w: %v", ErrFeatureExtraction, err)
	}

	return FeatureVector{
		float64(r.Gender),
		float64(r.Age),
		r.SleepDuration,
		float64(r.QualitySleep),
		float64(r.ActivityLevel),
		float64(r.StressLevel),
		float64(r.BMICategory),
		float64(r.HeartRate),
		float64(r.BPSystolic),
		float64(r.BPDiastolic),
		float64(r.DailySteps),
	}, nil
}

func validateRecord(r FeatureRecord) error {
	switch {
	case r.Gender < 0 || r.Gender > 1:
		return fmt.Errorf("gender out of range: %d", r.Gender)
	case r.Age < 1 || r.Age > 120:
		return fmt.Errorf("age out of range: %d", r.Age)
	case r.SleepDuration < 0 || r.SleepDuration > 24:
		return fmt.Errorf("sleep duration out of range: %g", r.SleepDuration)
	case r.QualitySleep < 0 || r.QualitySleep > 10:
		return fmt.Errorf("sleep quality out of range: %d", r.QualitySleep)
	case r.ActivityLevel < 0:
		return fmt.Errorf("activity level negative: %d", r.ActivityLevel)
	case r.StressLevel < 0 || r.StressLevel > 10:
		return fmt.Errorf("stress level out of range: %d", r.StressLevel)
	case r.BMICategory < 0 || r.BMICategory > 2:
		return fmt.Errorf("bmi category out of range: %d", r.BMICategory)
	case r.HeartRate < 20 || r.HeartRate > 260:
		return fmt.Errorf("heart rate out of range: %d", r.HeartRate)
	case r.BPSystolic < 50 || r.BPSystolic > 260:
		return fmt.Errorf("systolic out of range: %d", r.BPSystolic)
	case r.BPDiastolic < 30 || r.BPDiastolic > 200:
		return fmt.Errorf("diastolic out of range: %d", r.BPDiastolic)
	case r.DailySteps < 0:
		return fmt.Errorf("daily steps negative: %d", r.DailySteps)
	}
	return nil
}
