package grades

import (
	"fmt"
	"time"

	"glee-grades-bot/internal/models"
)

type Option func(*Calculator)

// WithLocation sets the time zone used to find week boundaries.
func WithLocation(loc *time.Location) Option {
	return func(c *Calculator) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithAttendedSectionalFix makes "attended a different sectional" look at
// actual attendance instead of the historical deny-credit check.
func WithAttendedSectionalFix(enabled bool) Option {
	return func(c *Calculator) { c.attendedSectionalFix = enabled }
}

type Calculator struct {
	loc                  *time.Location
	attendedSectionalFix bool
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{loc: time.Local}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GradeChange grades a single record against its week, starting from score.
func (c *Calculator) GradeChange(r Record, week Week, score float64, asOf time.Time) (GradeChange, error) {
	if !r.Event.Type.Valid() {
		return GradeChange{}, fmt.Errorf("event %d: %w", r.Event.ID, models.ErrUnknownEventType)
	}

	reason, change := c.pointChange(r, week, score, asOf)
	return GradeChange{
		Reason:       reason,
		Change:       change,
		PartialScore: clamp(score + change),
	}, nil
}

func (c *Calculator) pointChange(r Record, week Week, score float64, asOf time.Time) (string, float64) {
	a := r.Attendance
	if a == nil {
		return "No grades for inactive members", 0
	}
	if r.Event.CallTime.After(asOf) {
		return "Event hasn't happened yet", 0
	}

	points := float64(r.Event.Points)
	if a.DidAttend {
		switch {
		case week.MissedRehearsal() && r.Event.Type.IsGig():
			if r.Event.Type == models.EventTypeVolunteerGig {
				return "Bonus denied for volunteer gig because this week's rehearsal was missed", 0
			}
			return "Full deduction for unexcused absence from this week's rehearsal", -points
		case a.MinutesLate > 0 && r.Event.Type != models.EventTypeOmbuds:
			return c.latenessChange(r, week, score)
		case week.IsBonusEvent(r):
			if score+points > maxGrade {
				return fmt.Sprintf("Event grants %d-point bonus, but grade is capped at 100%%", r.Event.Points), maxGrade - score
			}
			return fmt.Sprintf("Full bonus of %d points awarded for attending", r.Event.Points), points
		default:
			return "No point change for attending required event", 0
		}
	}

	if a.ShouldAttend {
		return c.missedEventChange(r, week, asOf)
	}
	return "Did not need to attend", 0
}

func (c *Calculator) latenessChange(r Record, week Week, score float64) (string, float64) {
	points := float64(r.Event.Points)
	penalty := float64(r.Attendance.MinutesLate) / r.Event.Duration().Minutes() * points

	if week.IsBonusEvent(r) {
		bonus := points - penalty
		if score+bonus > maxGrade {
			return fmt.Sprintf("Event would grant %.2f-point bonus, but grade is capped at 100%%", bonus), maxGrade - score
		}
		return fmt.Sprintf("Event would grant %d-point bonus, but %.2f points deducted for lateness", r.Event.Points, penalty), bonus
	}
	if r.Attendance.ShouldAttend {
		return fmt.Sprintf("%.2f points deducted for lateness to required event", penalty), -penalty
	}
	return "No point change for attending required event", 0
}

func (c *Calculator) missedEventChange(r Record, week Week, asOf time.Time) (string, float64) {
	switch r.Event.Type {
	case models.EventTypeOmbuds:
		return "No deduction for missing an ombuds event", 0
	case models.EventTypeSectional:
		if c.attendedSectional(week) {
			return "No deduction because you attended a different sectional this week", 0
		}
		if first := week.FirstMissedSectional(); first != nil && first.Event.ID != r.Event.ID {
			return "No deduction because you already lost points for one sectional this week", 0
		}
		if week.SectionalsPending(asOf) {
			return "No deduction because not all sectionals occurred yet", 0
		}
	}

	if r.ApprovedAbsence {
		return "No deduction because an absence request was submitted and approved", 0
	}
	return "Full deduction for unexcused absence from event", -float64(r.Event.Points)
}

func (c *Calculator) attendedSectional(week Week) bool {
	if c.attendedSectionalFix {
		return week.AttendedAnySectional()
	}
	return week.AttendedSectional()
}
