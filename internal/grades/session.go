package grades

import "time"

// ForMember grades every record of a member's semester in chronological
// order, threading the clamped running score from one event to the next.
func (c *Calculator) ForMember(memberID uint, semester string, records []Record, asOf time.Time) (Grades, error) {
	result := Grades{
		MemberID:          memberID,
		Semester:          semester,
		FinalGrade:        startingGrade,
		EventsWithChanges: make([]EventWithChange, 0, len(records)),
	}

	score := startingGrade
	for _, week := range Partition(records, c.loc) {
		for _, r := range week.Records {
			change, err := c.GradeChange(r, week, score, asOf)
			if err != nil {
				return Grades{}, err
			}
			score = change.PartialScore

			if week.AttendedVolunteerGig(r) {
				result.VolunteerGigsAttended++
			}
			result.EventsWithChanges = append(result.EventsWithChanges, EventWithChange{
				Event:  r.Event,
				Change: change,
			})
		}
	}

	result.FinalGrade = score
	return result, nil
}
