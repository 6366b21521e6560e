package services

import (
	"github.com/lim28y/Sleep-Disorder-Prediction/models"
	"gorm.io/gorm"
)

const (
	chronicWindow    = 8
	chronicThreshold = 6
)

// ChronicService computes the chronic-risk flag at read time. Nothing is
// persisted: the judgment slides, and can flip back to false as healthier
// weekly reports push old bad ones out of the window.
type ChronicService struct {
	db *gorm.DB
}

func NewChronicService(db *gorm.DB) *ChronicService {
	return &ChronicService{db: db}
}

// IsChronic reports whether at least 6 of the user's 8 most recent weekly
// reports carry a disorder label. Fewer than 8 reports is always false.
// Sentinel and Unknown labels never count.
func (s *ChronicService) IsChronic(userID uint) (bool, error) {
	var reports []models.WeeklyReport
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(chronicWindow).
		Find(&reports).Error; err != nil {
		return false, err
	}

	if len(reports) < chronicWindow {
		return false, nil
	}

	bad := 0
	for _, r := range reports {
		if r.Prediction.IsDisorder() {
			bad++
		}
	}
	return bad >= chronicThreshold, nil
}
