package repository

import (
	"errors"

	"glee-grades-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidSnapshot = errors.New("invalid grade snapshot")

type GradeSnapshotRepository interface {
	Upsert(snapshot *models.GradeSnapshot) error
	GetByMemberAndSemester(memberID uint, semester string) (*models.GradeSnapshot, error)
	GetBySemester(semester string) ([]*models.GradeSnapshot, error)
}

type GormGradeSnapshotRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormGradeSnapshotRepository(db *gorm.DB) (*GormGradeSnapshotRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.GradeSnapshot{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate grade_snapshots table")
		return nil, err
	}

	logger.Info("Grade snapshot repository initialized")

	return &GormGradeSnapshotRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Upsert stores the snapshot, replacing the previous one for the same
// member and semester.
func (r *GormGradeSnapshotRepository) Upsert(snapshot *models.GradeSnapshot) error {
	if !snapshot.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"member_id":   snapshot.MemberID,
			"semester":    snapshot.Semester,
			"final_grade": snapshot.FinalGrade,
		}).Warn("Invalid grade snapshot")
		return ErrInvalidSnapshot
	}

	result := r.db.Omit("Member").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "semester"}},
		DoUpdates: clause.AssignmentColumns([]string{"final_grade", "volunteer_gigs_attended", "computed_at", "updated_at"}),
	}).Create(snapshot)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to upsert grade snapshot")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"member_id":   snapshot.MemberID,
		"semester":    snapshot.Semester,
		"final_grade": snapshot.FinalGrade,
	}).Debug("Grade snapshot stored")

	return nil
}

func (r *GormGradeSnapshotRepository) GetByMemberAndSemester(memberID uint, semester string) (*models.GradeSnapshot, error) {
	var snapshot models.GradeSnapshot
	result := r.db.Where("member_id = ? AND semester = ?", memberID, semester).First(&snapshot)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithFields(logrus.Fields{
			"member_id": memberID,
			"semester":  semester,
		}).Debug("Grade snapshot not found")
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get grade snapshot")
		return nil, result.Error
	}

	return &snapshot, nil
}

func (r *GormGradeSnapshotRepository) GetBySemester(semester string) ([]*models.GradeSnapshot, error) {
	var snapshots []*models.GradeSnapshot
	result := r.db.Preload("Member").
		Where("semester = ?", semester).
		Order("final_grade ASC, member_id ASC").
		Find(&snapshots)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get grade snapshots by semester")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"semester": semester,
		"count":    len(snapshots),
	}).Debug("Retrieved grade snapshots")

	return snapshots, nil
}
