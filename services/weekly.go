package services

import (
	"context"
	"errors"
	"sync"

	"github.com/lim28y/Sleep-Disorder-Prediction/models"
	"github.com/lim28y/Sleep-Disorder-Prediction/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WeeklyService restores the invariant reports == floor(logs/7) after each
// log insertion. Generation is serialized per user: an in-process mutex
// keeps one goroutine per user in the loop, and the unique (user_id,
// sequence) index backs that up at the persistence layer, so concurrent
// submissions cannot produce duplicate reports.
type WeeklyService struct {
	db         *gorm.DB
	classifier *Classifier
	logger     *zap.Logger
	locks      sync.Map // userID -> *sync.Mutex
}

func NewWeeklyService(db *gorm.DB, classifier *Classifier, logger *zap.Logger) *WeeklyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeeklyService{db: db, classifier: classifier, logger: logger}
}

func (s *WeeklyService) userLock(userID uint) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// GenerateDueReports creates every missing weekly report for the user and
// returns the ones created by this call. Re-running it when the invariant
// already holds is a no-op. A backfill of several weeks of logs is caught
// up in one call: the loop runs until expected == existing.
func (s *WeeklyService) GenerateDueReports(ctx context.Context, userID uint) ([]models.WeeklyReport, error) {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	var totalLogs int64
	if err := s.db.Model(&models.SleepLog{}).Where("user_id = ?", userID).Count(&totalLogs).Error; err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.Model(&models.WeeklyReport{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
		return nil, err
	}

	expected := totalLogs / 7
	if totalLogs < 7 || expected <= existing {
		return nil, nil
	}

	var created []models.WeeklyReport
	for existing < expected {
		report, err := s.generateOne(ctx, userID, int(existing)+1)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Another writer produced this sequence first. The invariant
				// is being restored elsewhere, stop here.
				s.logger.Info("weekly_report_race_lost",
					zap.Uint("user_id", userID),
					zap.Int64("sequence", existing+1),
				)
				return created, nil
			}
			return created, err
		}
		created = append(created, *report)
		existing++

		utils.WeeklyReportCount.Inc()
		s.logger.Info("weekly_report_created",
			zap.Uint("user_id", userID),
			zap.Int("sequence", report.Sequence),
			zap.String("prediction", string(report.Prediction)),
		)
	}
	return created, nil
}

func (s *WeeklyService) generateOne(ctx context.Context, userID uint, sequence int) (*models.WeeklyReport, error) {
	var recent []models.SleepLog
	if err := s.db.Where("user_id = ?", userID).
		Order("log_date DESC, id DESC").
		Limit(7).
		Find(&recent).Error; err != nil {
		return nil, err
	}

	profile, err := Aggregate(recent)
	if err != nil {
		return nil, err
	}

	label := models.LabelUnknown
	vec, err := BuildFeatures(RecordFromProfile(profile))
	if err != nil {
		// An averaged window failing extraction means a corrupt log slipped
		// past submission validation. Persist the report with an Unknown
		// label rather than wedging the invariant forever.
		s.logger.Error("weekly_feature_extraction_failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	} else {
		label = s.classifier.ClassifyOrSentinel(ctx, vec, "weekly")
	}

	report := models.WeeklyReport{
		UserID:           userID,
		Sequence:         sequence,
		WeekStartDate:    recent[0].LogDate,
		AvgSleepDuration: profile.SleepDuration,
		AvgQuality:       profile.QualitySleep,
		AvgStress:        profile.StressLevel,
		Prediction:       label,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
