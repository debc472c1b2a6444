package grades

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glee-grades-bot/internal/models"
)

var afterSemester = sunday.AddDate(0, 2, 0)

func releasedAfter(e models.Event, d time.Duration) models.Event {
	release := e.CallTime.Add(d)
	e.ReleaseTime = &release
	return e
}

func TestCalculator_GradeChange(t *testing.T) {
	rehearsal := event(1, models.EventTypeRehearsal, 10, at(1, 19))
	tutti := event(2, models.EventTypeTuttiGig, 20, at(3, 19))
	volunteer := event(3, models.EventTypeVolunteerGig, 5, at(4, 19))
	volunteer.GigCount = true
	ombuds := event(4, models.EventTypeOmbuds, 5, at(5, 12))
	other := event(5, models.EventTypeOther, 3, at(5, 18))
	sectional := event(6, models.EventTypeSectional, 5, at(2, 19))

	missedRehearsalWeek := []Record{{Event: rehearsal, Attendance: missed()}}

	tests := []struct {
		name       string
		record     Record
		others     []Record
		score      float64
		asOf       time.Time
		wantChange float64
		wantScore  float64
		wantReason string
	}{
		{
			name:       "no attendance record",
			record:     Record{Event: rehearsal},
			score:      90,
			wantChange: 0,
			wantScore:  90,
			wantReason: "No grades for inactive members",
		},
		{
			name:       "future event",
			record:     Record{Event: rehearsal, Attendance: missed()},
			score:      90,
			asOf:       at(1, 18),
			wantChange: 0,
			wantScore:  90,
			wantReason: "Event hasn't happened yet",
		},
		{
			name:       "tutti gig after missed rehearsal",
			record:     Record{Event: tutti, Attendance: attended(0)},
			others:     missedRehearsalWeek,
			score:      90,
			wantChange: -20,
			wantScore:  70,
			wantReason: "Full deduction for unexcused absence from this week's rehearsal",
		},
		{
			name:       "volunteer gig after missed rehearsal",
			record:     Record{Event: volunteer, Attendance: attended(0)},
			others:     missedRehearsalWeek,
			score:      90,
			wantChange: 0,
			wantScore:  90,
			wantReason: "Bonus denied for volunteer gig because this week's rehearsal was missed",
		},
		{
			name:       "late to bonus event with release time",
			record:     Record{Event: releasedAfter(volunteer, 2*time.Hour), Attendance: attended(30)},
			score:      80,
			wantChange: 3.75,
			wantScore:  83.75,
			wantReason: "Event would grant 5-point bonus, but 1.25 points deducted for lateness",
		},
		{
			name:       "late to bonus event hits the cap",
			record:     Record{Event: volunteer, Attendance: attended(6)},
			score:      98,
			wantChange: 2,
			wantScore:  100,
			wantReason: "Event would grant 4.50-point bonus, but grade is capped at 100%",
		},
		{
			name:       "very late to bonus event goes negative",
			record:     Record{Event: volunteer, Attendance: attended(120)},
			score:      80,
			wantChange: -5,
			wantScore:  75,
			wantReason: "Event would grant 5-point bonus, but 10.00 points deducted for lateness",
		},
		{
			name:       "late to optional required-type event",
			record:     Record{Event: rehearsal, Attendance: &models.Attendance{DidAttend: true, MinutesLate: 10}},
			score:      80,
			wantChange: 0,
			wantScore:  80,
			wantReason: "No point change for attending required event",
		},
		{
			name:       "late to ombuds is ignored",
			record:     Record{Event: ombuds, Attendance: attended(30)},
			score:      80,
			wantChange: 5,
			wantScore:  85,
			wantReason: "Full bonus of 5 points awarded for attending",
		},
		{
			name:       "release time not after call falls back to an hour",
			record:     Record{Event: releasedAfter(rehearsal, -time.Hour), Attendance: attended(30)},
			score:      100,
			wantChange: -5,
			wantScore:  95,
			wantReason: "5.00 points deducted for lateness to required event",
		},
		{
			name:       "bonus capped",
			record:     Record{Event: volunteer, Attendance: attended(0)},
			score:      97,
			wantChange: 3,
			wantScore:  100,
			wantReason: "Event grants 5-point bonus, but grade is capped at 100%",
		},
		{
			name:       "optional other event is a bonus",
			record:     Record{Event: other, Attendance: &models.Attendance{DidAttend: true}},
			score:      90,
			wantChange: 3,
			wantScore:  93,
			wantReason: "Full bonus of 3 points awarded for attending",
		},
		{
			name:       "attended required event",
			record:     Record{Event: tutti, Attendance: attended(0)},
			score:      90,
			wantChange: 0,
			wantScore:  90,
			wantReason: "No point change for attending required event",
		},
		{
			name:       "attended sectional in clean week",
			record:     Record{Event: sectional, Attendance: attended(0)},
			score:      90,
			wantChange: 5,
			wantScore:  95,
			wantReason: "Full bonus of 5 points awarded for attending",
		},
		{
			name:       "missed ombuds",
			record:     Record{Event: ombuds, Attendance: missed()},
			score:      90,
			wantChange: 0,
			wantScore:  90,
			wantReason: "No deduction for missing an ombuds event",
		},
		{
			name:       "approved absence",
			record:     Record{Event: tutti, Attendance: missed(), ApprovedAbsence: true},
			score:      90,
			wantChange: 0,
			wantScore:  90,
			wantReason: "No deduction because an absence request was submitted and approved",
		},
		{
			name:       "unexcused absence",
			record:     Record{Event: tutti, Attendance: missed()},
			score:      90,
			wantChange: -20,
			wantScore:  70,
			wantReason: "Full deduction for unexcused absence from event",
		},
		{
			name:       "unexcused absence clamps at zero",
			record:     Record{Event: tutti, Attendance: missed()},
			score:      5,
			wantChange: -20,
			wantScore:  0,
			wantReason: "Full deduction for unexcused absence from event",
		},
		{
			name:       "did not need to attend",
			record:     Record{Event: tutti, Attendance: optional()},
			score:      90,
			wantChange: 0,
			wantScore:  90,
			wantReason: "Did not need to attend",
		},
	}

	c := NewCalculator(WithLocation(time.UTC))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asOf := tt.asOf
			if asOf.IsZero() {
				asOf = afterSemester
			}
			week := Week{Start: sunday, Records: append([]Record{tt.record}, tt.others...)}

			got, err := c.GradeChange(tt.record, week, tt.score, asOf)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantChange, got.Change, 1e-9)
			assert.InDelta(t, tt.wantScore, got.PartialScore, 1e-9)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

func TestCalculator_MissedSectionals(t *testing.T) {
	first := event(1, models.EventTypeSectional, 5, at(1, 19))
	second := event(2, models.EventTypeSectional, 5, at(3, 19))

	t.Run("only the first missed sectional is docked", func(t *testing.T) {
		c := NewCalculator(WithLocation(time.UTC), WithAttendedSectionalFix(true))
		week := Week{Start: sunday, Records: []Record{
			{Event: first, Attendance: missed()},
			{Event: second, Attendance: missed()},
		}}

		got, err := c.GradeChange(week.Records[0], week, 100, afterSemester)
		require.NoError(t, err)
		assert.Equal(t, -5.0, got.Change)
		assert.Equal(t, "Full deduction for unexcused absence from event", got.Reason)

		got, err = c.GradeChange(week.Records[1], week, 95, afterSemester)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got.Change)
		assert.Equal(t, "No deduction because you already lost points for one sectional this week", got.Reason)
	})

	t.Run("excused while a later sectional is still ahead", func(t *testing.T) {
		c := NewCalculator(WithLocation(time.UTC), WithAttendedSectionalFix(true))
		week := Week{Start: sunday, Records: []Record{
			{Event: first, Attendance: missed()},
			{Event: second, Attendance: missed()},
		}}

		got, err := c.GradeChange(week.Records[0], week, 100, at(2, 12))
		require.NoError(t, err)
		assert.Equal(t, 0.0, got.Change)
		assert.Equal(t, "No deduction because not all sectionals occurred yet", got.Reason)
	})

	t.Run("historical check excuses any missed sectional", func(t *testing.T) {
		c := NewCalculator(WithLocation(time.UTC))
		week := Week{Start: sunday, Records: []Record{
			{Event: first, Attendance: missed()},
		}}

		got, err := c.GradeChange(week.Records[0], week, 100, afterSemester)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got.Change)
		assert.Equal(t, "No deduction because you attended a different sectional this week", got.Reason)
	})

	t.Run("corrected check docks a lone missed sectional", func(t *testing.T) {
		c := NewCalculator(WithLocation(time.UTC), WithAttendedSectionalFix(true))
		week := Week{Start: sunday, Records: []Record{
			{Event: first, Attendance: missed()},
		}}

		got, err := c.GradeChange(week.Records[0], week, 100, afterSemester)
		require.NoError(t, err)
		assert.Equal(t, -5.0, got.Change)
	})
}

func TestCalculator_UnknownEventType(t *testing.T) {
	c := NewCalculator(WithLocation(time.UTC))
	bad := Record{Event: event(1, models.EventType(42), 10, at(1, 19)), Attendance: missed()}

	_, err := c.GradeChange(bad, Week{Start: sunday, Records: []Record{bad}}, 100, afterSemester)
	assert.ErrorIs(t, err, models.ErrUnknownEventType)

	_, err = c.ForMember(1, "Fall 2026", []Record{bad}, afterSemester)
	assert.ErrorIs(t, err, models.ErrUnknownEventType)
}
