package repository

import (
	"errors"
	"time"

	"glee-grades-bot/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAbsenceNotFound     = errors.New("absence request not found")
	ErrAbsenceDecided      = errors.New("absence request already decided")
	ErrInvalidAbsenceState = errors.New("invalid absence request state")
)

type AbsenceRequestRepository interface {
	Submit(memberID, eventID uint, reason string, at time.Time) (*models.AbsenceRequest, error)
	Get(memberID, eventID uint) (*models.AbsenceRequest, error)
	SetState(memberID, eventID uint, state models.AbsenceState) error
	GetPending(semester string) ([]models.AbsenceRequest, error)
	GetByMember(memberID uint) ([]models.AbsenceRequest, error)
	ApprovedEventIDs(memberID uint, semester string) (map[uint]bool, error)
}

type GormAbsenceRequestRepository struct {
	db *gorm.DB
}

func NewGormAbsenceRequestRepository(db *gorm.DB) (*GormAbsenceRequestRepository, error) {
	if err := db.AutoMigrate(&models.AbsenceRequest{}); err != nil {
		return nil, err
	}
	return &GormAbsenceRequestRepository{db: db}, nil
}

// Submit creates a pending request, or replaces the reason of one that is
// still pending.
func (r *GormAbsenceRequestRepository) Submit(memberID, eventID uint, reason string, at time.Time) (*models.AbsenceRequest, error) {
	existing, err := r.Get(memberID, eventID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.State != models.AbsencePending {
			return nil, ErrAbsenceDecided
		}
		existing.Reason = reason
		existing.Time = at
		if err := r.db.Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	request := &models.AbsenceRequest{
		MemberID: memberID,
		EventID:  eventID,
		Time:     at,
		Reason:   reason,
		State:    models.AbsencePending,
	}
	if err := r.db.Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *GormAbsenceRequestRepository) Get(memberID, eventID uint) (*models.AbsenceRequest, error) {
	var request models.AbsenceRequest
	err := r.db.Where("member_id = ? AND event_id = ?", memberID, eventID).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *GormAbsenceRequestRepository) SetState(memberID, eventID uint, state models.AbsenceState) error {
	if !state.Valid() {
		return ErrInvalidAbsenceState
	}

	result := r.db.Model(&models.AbsenceRequest{}).
		Where("member_id = ? AND event_id = ?", memberID, eventID).
		Update("state", state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAbsenceNotFound
	}
	return nil
}

func (r *GormAbsenceRequestRepository) GetPending(semester string) ([]models.AbsenceRequest, error) {
	var requests []models.AbsenceRequest
	err := r.db.Preload("Member").Preload("Event").
		Joins("JOIN events ON events.id = absence_requests.event_id").
		Where("absence_requests.state = ? AND events.semester = ?", models.AbsencePending, semester).
		Order("absence_requests.submitted_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *GormAbsenceRequestRepository) GetByMember(memberID uint) ([]models.AbsenceRequest, error) {
	var requests []models.AbsenceRequest
	err := r.db.Preload("Event").
		Where("member_id = ?", memberID).
		Order("submitted_at DESC").
		Find(&requests).Error
	return requests, err
}

// ApprovedEventIDs returns the events of the semester the member is excused from.
func (r *GormAbsenceRequestRepository) ApprovedEventIDs(memberID uint, semester string) (map[uint]bool, error) {
	var ids []uint
	err := r.db.Model(&models.AbsenceRequest{}).
		Joins("JOIN events ON events.id = absence_requests.event_id").
		Where("absence_requests.member_id = ? AND absence_requests.state = ? AND events.semester = ?",
			memberID, models.AbsenceApproved, semester).
		Pluck("absence_requests.event_id", &ids).Error
	if err != nil {
		return nil, err
	}

	approved := make(map[uint]bool, len(ids))
	for _, id := range ids {
		approved[id] = true
	}
	return approved, nil
}
