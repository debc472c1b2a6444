package models

import (
	"time"
)

// GradeSnapshot is the last computed grade of a member for a semester.
type GradeSnapshot struct {
	ID                    uint      `gorm:"primarykey" json:"id"`
	MemberID              uint      `gorm:"not null;uniqueIndex:idx_snapshot_member_semester" json:"member_id"`
	Semester              string    `gorm:"not null;uniqueIndex:idx_snapshot_member_semester;index" json:"semester"`
	FinalGrade            float64   `gorm:"not null" json:"final_grade"`
	VolunteerGigsAttended int       `gorm:"not null;default:0" json:"volunteer_gigs_attended"`
	ComputedAt            time.Time `gorm:"not null" json:"computed_at"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Member Member `gorm:"foreignKey:MemberID" json:"member"`
}

func (GradeSnapshot) TableName() string {
	return "grade_snapshots"
}

// IsValid checks the stored grade stays within the clamp range.
func (s *GradeSnapshot) IsValid() bool {
	if s.MemberID == 0 || s.Semester == "" {
		return false
	}
	if s.FinalGrade < 0 || s.FinalGrade > 100 {
		return false
	}
	return s.VolunteerGigsAttended >= 0
}
