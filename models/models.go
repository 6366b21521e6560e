package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"unique" json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `gorm:"default:user" json:"role"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	Logs         []SleepLog `gorm:"foreignKey:UserID" json:"-"`
}

// SleepLog is one submitted record of a day's sleep/activity/vitals.
// Rows are append-only: never updated or deleted.
type SleepLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index" json:"user_id"`
	LogDate       time.Time `json:"log_date"`
	Gender        int       `json:"gender"`
	Age           int       `json:"age"`
	BMICategory   int       `json:"bmi_category"`
	SleepDuration float64   `json:"sleep_duration"`
	QualitySleep  int       `json:"quality_sleep"`
	ActivityLevel int       `json:"activity_level"`
	StressLevel   int       `json:"stress_level"`
	BPSystolic    int       `json:"bp_systolic"`
	BPDiastolic   int       `json:"bp_diastolic"`
	HeartRate     int       `json:"heart_rate"`
	DailySteps    int       `json:"daily_steps"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// WeeklyReport is the derived 7-log summary. Sequence is the 1-based report
// number for the user; the unique (user_id, sequence) index guarantees at
// most one report per window even under concurrent submissions.
type WeeklyReport struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex:idx_user_sequence" json:"user_id"`
	Sequence         int       `gorm:"uniqueIndex:idx_user_sequence" json:"sequence"`
	WeekStartDate    time.Time `json:"week_start_date"`
	AvgSleepDuration float64   `json:"avg_sleep_duration"`
	AvgQuality       int       `json:"avg_quality"`
	AvgStress        int       `json:"avg_stress"`
	Prediction       Label     `json:"prediction_result"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Label is the closed set of classification outcomes. The two sentinel
// values signal a broken prediction path, not a diagnosis, and never count
// toward the chronic alert.
type Label string

const (
	LabelNormal     Label = "Normal"
	LabelInsomnia   Label = "Insomnia Detected"
	LabelSleepApnea Label = "HIGH RISK: Sleep Apnea Detected"
	LabelUnknown    Label = "Unknown"

	// Sentinels: model missing at startup / inference call failed.
	LabelModelError      Label = "Model Error"
	LabelPredictionError Label = "Prediction Error"
)

// IsDisorder reports whether the label is one of the two diagnosed
// disorder categories.
func (l Label) IsDisorder() bool {
	return l == LabelInsomnia || l == LabelSleepApnea
}
