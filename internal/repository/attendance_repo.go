package repository

import (
	"errors"

	"glee-grades-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidAttendance = errors.New("invalid attendance data")

type AttendanceRepository interface {
	CreateForEvent(event *models.Event, memberIDs []uint) error
	CreateForMember(memberID uint, events []models.Event) error
	Get(memberID, eventID uint) (*models.Attendance, error)
	GetByEvent(eventID uint) ([]models.Attendance, error)
	GetByMemberAndSemester(memberID uint, semester string) ([]models.Attendance, error)
	Update(attendance *models.Attendance) error
}

type GormAttendanceRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAttendanceRepository(db *gorm.DB) (*GormAttendanceRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.Attendance{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate attendances table")
		return nil, err
	}

	logger.Info("Attendance repository initialized")

	return &GormAttendanceRepository{
		db:     db,
		logger: logger,
	}, nil
}

// CreateForEvent adds one attendance row per member, skipping existing ones.
func (r *GormAttendanceRepository) CreateForEvent(event *models.Event, memberIDs []uint) error {
	if len(memberIDs) == 0 {
		return nil
	}

	rows := make([]models.Attendance, 0, len(memberIDs))
	for _, id := range memberIDs {
		rows = append(rows, models.Attendance{
			MemberID:     id,
			EventID:      event.ID,
			ShouldAttend: event.DefaultAttend,
		})
	}

	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create attendance for event")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"event_id": event.ID,
		"created":  result.RowsAffected,
	}).Info("Attendance created for event")

	return nil
}

// CreateForMember adds one attendance row per event, skipping existing ones.
func (r *GormAttendanceRepository) CreateForMember(memberID uint, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]models.Attendance, 0, len(events))
	for _, e := range events {
		rows = append(rows, models.Attendance{
			MemberID:     memberID,
			EventID:      e.ID,
			ShouldAttend: e.DefaultAttend,
		})
	}

	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create attendance for member")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"member_id": memberID,
		"created":   result.RowsAffected,
	}).Info("Attendance created for member")

	return nil
}

func (r *GormAttendanceRepository) Get(memberID, eventID uint) (*models.Attendance, error) {
	var attendance models.Attendance
	result := r.db.Where("member_id = ? AND event_id = ?", memberID, eventID).First(&attendance)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get attendance")
		return nil, result.Error
	}

	return &attendance, nil
}

func (r *GormAttendanceRepository) GetByEvent(eventID uint) ([]models.Attendance, error) {
	var rows []models.Attendance
	result := r.db.Where("event_id = ?", eventID).Order("member_id ASC").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (r *GormAttendanceRepository) GetByMemberAndSemester(memberID uint, semester string) ([]models.Attendance, error) {
	var rows []models.Attendance
	result := r.db.
		Joins("JOIN events ON events.id = attendances.event_id").
		Where("attendances.member_id = ? AND events.semester = ?", memberID, semester).
		Find(&rows)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get attendance by member and semester")
		return nil, result.Error
	}

	return rows, nil
}

func (r *GormAttendanceRepository) Update(attendance *models.Attendance) error {
	if !attendance.IsValid() {
		return ErrInvalidAttendance
	}

	r.logger.WithFields(logrus.Fields{
		"member_id":     attendance.MemberID,
		"event_id":      attendance.EventID,
		"should_attend": attendance.ShouldAttend,
		"did_attend":    attendance.DidAttend,
		"minutes_late":  attendance.MinutesLate,
	}).Info("Updating attendance")

	return r.db.Save(attendance).Error
}
