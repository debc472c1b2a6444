package repository

import (
	"errors"

	"glee-grades-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidSemester = errors.New("invalid semester data")
	ErrSemesterExists  = errors.New("semester already exists")
)

type SemesterRepository interface {
	Create(semester *models.Semester) error
	GetByName(name string) (*models.Semester, error)
	GetCurrent() (*models.Semester, error)
	SetCurrent(name string) error
	GetAll() ([]*models.Semester, error)

	Enroll(memberID uint, semester string) (bool, error)
	IsActive(memberID uint, semester string) (bool, error)
	ActiveMemberIDs(semester string) ([]uint, error)
	Leave(memberID uint, semester string) error
}

type GormSemesterRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormSemesterRepository(db *gorm.DB) (*GormSemesterRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.Semester{}, &models.ActiveSemester{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate semester tables")
		return nil, err
	}

	logger.Info("Semester repository initialized")

	return &GormSemesterRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormSemesterRepository) Create(semester *models.Semester) error {
	r.logger.WithField("name", semester.Name).Info("Creating semester")

	if !semester.IsValid() {
		r.logger.WithField("name", semester.Name).Warn("Invalid semester data")
		return ErrInvalidSemester
	}

	existing, err := r.GetByName(semester.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrSemesterExists
	}

	if err := r.db.Create(semester).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create semester")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"id":   semester.ID,
		"name": semester.Name,
	}).Info("Semester created successfully")

	return nil
}

func (r *GormSemesterRepository) GetByName(name string) (*models.Semester, error) {
	var semester models.Semester
	result := r.db.Where("name = ?", name).First(&semester)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("name", name).Debug("Semester not found")
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get semester by name")
		return nil, result.Error
	}

	return &semester, nil
}

func (r *GormSemesterRepository) GetCurrent() (*models.Semester, error) {
	var semester models.Semester
	result := r.db.Where("is_current = ?", true).First(&semester)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get current semester")
		return nil, result.Error
	}

	return &semester, nil
}

// SetCurrent makes name the only current semester.
func (r *GormSemesterRepository) SetCurrent(name string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Semester{}).Where("is_current = ?", true).Update("is_current", false).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Semester{}).Where("name = ?", name).Update("is_current", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		r.logger.WithError(err).WithField("name", name).Error("Failed to set current semester")
		return err
	}

	r.logger.WithField("name", name).Info("Current semester changed")
	return nil
}

func (r *GormSemesterRepository) GetAll() ([]*models.Semester, error) {
	var semesters []*models.Semester
	result := r.db.Order("start_date ASC").Find(&semesters)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get semesters")
		return nil, result.Error
	}

	return semesters, nil
}

// Enroll marks the member active; it reports false when already enrolled.
func (r *GormSemesterRepository) Enroll(memberID uint, semester string) (bool, error) {
	active, err := r.IsActive(memberID, semester)
	if err != nil {
		return false, err
	}
	if active {
		return false, nil
	}

	if err := r.db.Create(&models.ActiveSemester{MemberID: memberID, Semester: semester}).Error; err != nil {
		r.logger.WithError(err).Error("Failed to enroll member")
		return false, err
	}

	r.logger.WithFields(logrus.Fields{
		"member_id": memberID,
		"semester":  semester,
	}).Info("Member enrolled in semester")

	return true, nil
}

func (r *GormSemesterRepository) IsActive(memberID uint, semester string) (bool, error) {
	var count int64
	result := r.db.Model(&models.ActiveSemester{}).
		Where("member_id = ? AND semester = ?", memberID, semester).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (r *GormSemesterRepository) ActiveMemberIDs(semester string) ([]uint, error) {
	var ids []uint
	result := r.db.Model(&models.ActiveSemester{}).
		Where("semester = ?", semester).
		Order("member_id ASC").
		Pluck("member_id", &ids)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list active members")
		return nil, result.Error
	}

	return ids, nil
}

func (r *GormSemesterRepository) Leave(memberID uint, semester string) error {
	return r.db.Where("member_id = ? AND semester = ?", memberID, semester).
		Delete(&models.ActiveSemester{}).Error
}
