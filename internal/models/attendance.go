package models

import "time"

type Attendance struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	MemberID     uint      `gorm:"not null;uniqueIndex:idx_attendance_member_event" json:"member_id"`
	EventID      uint      `gorm:"not null;uniqueIndex:idx_attendance_member_event;index" json:"event_id"`
	ShouldAttend bool      `gorm:"not null" json:"should_attend"`
	DidAttend    bool      `gorm:"not null;default:false" json:"did_attend"`
	Confirmed    bool      `gorm:"not null;default:false" json:"confirmed"`
	MinutesLate  int       `gorm:"not null;default:0" json:"minutes_late"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Attendance) TableName() string {
	return "attendances"
}

func (a *Attendance) IsValid() bool {
	return a.MemberID != 0 && a.EventID != 0 && a.MinutesLate >= 0
}
