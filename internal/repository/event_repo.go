package repository

import (
	"errors"

	"glee-grades-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidEvent  = errors.New("invalid event data")
	ErrEventNotFound = errors.New("event not found")
)

type EventRepository interface {
	Create(event *models.Event) error
	BulkCreate(events []models.Event) error
	GetByID(id uint) (*models.Event, error)
	GetBySemester(semester string) ([]models.Event, error)
	Update(event *models.Event) error
	Delete(id uint) error
}

type GormEventRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormEventRepository(db *gorm.DB) (*GormEventRepository, error) {
	logger := newLogger()

	if err := db.AutoMigrate(&models.Event{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate events table")
		return nil, err
	}

	logger.Info("Event repository initialized")

	return &GormEventRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormEventRepository) Create(event *models.Event) error {
	r.logger.WithFields(logrus.Fields{
		"name":     event.Name,
		"semester": event.Semester,
		"type":     event.Type.String(),
	}).Info("Creating event")

	if !event.IsValid() {
		r.logger.WithField("name", event.Name).Warn("Invalid event data")
		return ErrInvalidEvent
	}

	if err := r.db.Create(event).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create event")
		return err
	}

	r.logger.WithField("id", event.ID).Info("Event created successfully")
	return nil
}

func (r *GormEventRepository) BulkCreate(events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	for i := range events {
		if !events[i].IsValid() {
			r.logger.WithField("name", events[i].Name).Warn("Invalid event data in bulk create")
			return ErrInvalidEvent
		}
	}

	if err := r.db.Create(&events).Error; err != nil {
		r.logger.WithError(err).Error("Failed to bulk create events")
		return err
	}

	r.logger.WithField("count", len(events)).Info("Events created")
	return nil
}

func (r *GormEventRepository) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	result := r.db.First(&event, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Event not found")
		return nil, nil
	}
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get event by ID")
		return nil, result.Error
	}

	return &event, nil
}

func (r *GormEventRepository) GetBySemester(semester string) ([]models.Event, error) {
	var events []models.Event
	result := r.db.Where("semester = ?", semester).Order("call_time ASC, id ASC").Find(&events)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get events by semester")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"semester": semester,
		"count":    len(events),
	}).Debug("Retrieved events by semester")

	return events, nil
}

func (r *GormEventRepository) Update(event *models.Event) error {
	if !event.IsValid() {
		return ErrInvalidEvent
	}

	existing, err := r.GetByID(event.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrEventNotFound
	}

	if err := r.db.Save(event).Error; err != nil {
		r.logger.WithError(err).Error("Failed to update event")
		return err
	}
	return nil
}

// Delete removes the event with its attendance rows and absence requests.
func (r *GormEventRepository) Delete(id uint) error {
	r.logger.WithField("id", id).Info("Deleting event")

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.AbsenceRequest{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Event{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEventNotFound
		}
		return nil
	})
}
