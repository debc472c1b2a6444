// Package grades computes a member's attendance grade for a semester.
//
// The engine is a pure fold over a member's events: they are split into
// Sunday-aligned weeks, each event is graded against its week and the running
// score, and the score is kept within [0, 100]. Nothing here reads the wall
// clock or touches storage; callers pass the evaluation instant explicitly.
package grades

import (
	"glee-grades-bot/internal/models"
)

const (
	startingGrade = 100.0
	maxGrade      = 100.0
	minGrade      = 0.0
)

// Record is one event of the semester as seen by a single member.
// Attendance is nil when the member has no attendance row for the event.
type Record struct {
	Event           models.Event
	Attendance      *models.Attendance
	ApprovedAbsence bool
}

// DenyCredit is true when the member was expected, did not come and has no
// approved absence.
func (r Record) DenyCredit() bool {
	a := r.Attendance
	return a != nil && a.ShouldAttend && !a.DidAttend && !r.ApprovedAbsence
}

type GradeChange struct {
	Reason       string  `json:"reason"`
	Change       float64 `json:"change"`
	PartialScore float64 `json:"partial_score"`
}

type EventWithChange struct {
	Event  models.Event `json:"event"`
	Change GradeChange  `json:"change"`
}

// Grades is the result of grading one member for one semester.
type Grades struct {
	MemberID              uint              `json:"member_id"`
	Semester              string            `json:"semester"`
	FinalGrade            float64           `json:"final_grade"`
	VolunteerGigsAttended int               `json:"volunteer_gigs_attended"`
	EventsWithChanges     []EventWithChange `json:"events_with_changes"`
}

func clamp(score float64) float64 {
	if score < minGrade {
		return minGrade
	}
	if score > maxGrade {
		return maxGrade
	}
	return score
}
