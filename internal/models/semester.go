package models

import "time"

type Semester struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Current   bool      `gorm:"column:is_current;not null;default:false;index" json:"current"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Semester) TableName() string {
	return "semesters"
}

func (s *Semester) IsValid() bool {
	if s.Name == "" {
		return false
	}
	return s.EndDate.After(s.StartDate)
}

// ActiveSemester marks a member as active for a semester.
type ActiveSemester struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	MemberID  uint      `gorm:"not null;uniqueIndex:idx_active_member_semester" json:"member_id"`
	Semester  string    `gorm:"not null;uniqueIndex:idx_active_member_semester" json:"semester"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ActiveSemester) TableName() string {
	return "active_semesters"
}
