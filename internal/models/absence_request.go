package models

import "time"

type AbsenceState string

const (
	AbsencePending  AbsenceState = "pending"
	AbsenceApproved AbsenceState = "approved"
	AbsenceDenied   AbsenceState = "denied"
)

type AbsenceRequest struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	MemberID  uint         `gorm:"not null;uniqueIndex:idx_absence_member_event" json:"member_id"`
	EventID   uint         `gorm:"not null;uniqueIndex:idx_absence_member_event;index" json:"event_id"`
	Time      time.Time    `gorm:"column:submitted_at;not null" json:"time"`
	Reason    string       `gorm:"not null" json:"reason"`
	State     AbsenceState `gorm:"type:varchar(20);not null;default:'pending';index" json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	Member Member `gorm:"foreignKey:MemberID" json:"-"`
	Event  Event  `gorm:"foreignKey:EventID" json:"-"`
}

func (AbsenceRequest) TableName() string {
	return "absence_requests"
}

func (r *AbsenceRequest) IsApproved() bool {
	return r.State == AbsenceApproved
}

func (s AbsenceState) Valid() bool {
	switch s {
	case AbsencePending, AbsenceApproved, AbsenceDenied:
		return true
	}
	return false
}
