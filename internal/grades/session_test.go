package grades

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glee-grades-bot/internal/models"
)

func TestCalculator_ForMember_Empty(t *testing.T) {
	c := NewCalculator(WithLocation(time.UTC))

	got, err := c.ForMember(7, "Fall 2026", nil, afterSemester)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.MemberID)
	assert.Equal(t, "Fall 2026", got.Semester)
	assert.Equal(t, 100.0, got.FinalGrade)
	assert.Equal(t, 0, got.VolunteerGigsAttended)
	assert.Empty(t, got.EventsWithChanges)
}

func TestCalculator_ForMember_Scenarios(t *testing.T) {
	c := NewCalculator(WithLocation(time.UTC))

	t.Run("missed rehearsal costs its points", func(t *testing.T) {
		records := []Record{
			{Event: event(1, models.EventTypeRehearsal, 10, at(1, 19)), Attendance: missed()},
		}

		got, err := c.ForMember(1, "Fall 2026", records, afterSemester)
		require.NoError(t, err)
		require.Len(t, got.EventsWithChanges, 1)
		assert.Equal(t, -10.0, got.EventsWithChanges[0].Change.Change)
		assert.Equal(t, 90.0, got.FinalGrade)
	})

	t.Run("volunteer gig bonus is capped and counted", func(t *testing.T) {
		gig := event(2, models.EventTypeVolunteerGig, 5, at(10, 19))
		gig.GigCount = true
		records := []Record{
			{Event: event(1, models.EventTypeTuttiGig, 2, at(3, 19)), Attendance: missed()},
			{Event: gig, Attendance: attended(0)},
		}

		got, err := c.ForMember(1, "Fall 2026", records, afterSemester)
		require.NoError(t, err)
		require.Len(t, got.EventsWithChanges, 2)
		assert.Equal(t, 98.0, got.EventsWithChanges[0].Change.PartialScore)
		assert.Equal(t, 2.0, got.EventsWithChanges[1].Change.Change)
		assert.Equal(t, 100.0, got.FinalGrade)
		assert.Equal(t, 1, got.VolunteerGigsAttended)
	})

	t.Run("lateness is proportional to the event length", func(t *testing.T) {
		records := []Record{
			{Event: event(1, models.EventTypeRehearsal, 60, at(1, 19)), Attendance: attended(15)},
		}

		got, err := c.ForMember(1, "Fall 2026", records, afterSemester)
		require.NoError(t, err)
		assert.InDelta(t, -15.0, got.EventsWithChanges[0].Change.Change, 1e-9)
		assert.InDelta(t, 85.0, got.FinalGrade, 1e-9)
	})

	for _, fixed := range []bool{false, true} {
		for _, approved := range []bool{false, true} {
			fixed, approved := fixed, approved
			t.Run(fmt.Sprintf("fixed=%v approved=%v", fixed, approved), func(t *testing.T) {
				c := NewCalculator(WithLocation(time.UTC), WithAttendedSectionalFix(fixed))
				records := []Record{
					{Event: event(1, models.EventTypeSectional, 5, at(1, 19)), Attendance: attended(0)},
					{Event: event(2, models.EventTypeSectional, 5, at(3, 19)), Attendance: missed(), ApprovedAbsence: approved},
				}

				got, err := c.ForMember(1, "Fall 2026", records, afterSemester)
				require.NoError(t, err)
				require.Len(t, got.EventsWithChanges, 2)

				change := got.EventsWithChanges[1].Change
				assert.Equal(t, 0.0, change.Change)
				if !fixed && approved {
					// no sectional denies credit, so only the approved absence excuses it
					assert.Equal(t, "No deduction because an absence request was submitted and approved", change.Reason)
					return
				}
				assert.Equal(t, "No deduction because you attended a different sectional this week", change.Reason)
			})
		}
	}

	t.Run("missed ombuds is free even with an approved absence", func(t *testing.T) {
		records := []Record{
			{Event: event(1, models.EventTypeOmbuds, 5, at(1, 19)), Attendance: missed(), ApprovedAbsence: true},
		}

		got, err := c.ForMember(1, "Fall 2026", records, afterSemester)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got.EventsWithChanges[0].Change.Change)
		assert.Equal(t, "No deduction for missing an ombuds event", got.EventsWithChanges[0].Change.Reason)
		assert.Equal(t, 100.0, got.FinalGrade)
	})
}

// semester builds a deterministic pseudo-random semester of records.
func semester(seed int64, n int) []Record {
	rnd := rand.New(rand.NewSource(seed))
	types := []models.EventType{
		models.EventTypeRehearsal,
		models.EventTypeSectional,
		models.EventTypeVolunteerGig,
		models.EventTypeTuttiGig,
		models.EventTypeOmbuds,
		models.EventTypeOther,
	}

	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		e := event(uint(i+1), types[rnd.Intn(len(types))], rnd.Intn(30), sunday.Add(time.Duration(rnd.Intn(100*24))*time.Hour))
		e.GigCount = rnd.Intn(2) == 0
		if rnd.Intn(3) == 0 {
			e = releasedAfter(e, time.Duration(30+rnd.Intn(180))*time.Minute)
		}

		r := Record{Event: e, ApprovedAbsence: rnd.Intn(5) == 0}
		if rnd.Intn(8) != 0 {
			r.Attendance = &models.Attendance{
				ShouldAttend: rnd.Intn(4) != 0,
				DidAttend:    rnd.Intn(2) == 0,
				MinutesLate:  rnd.Intn(4) * rnd.Intn(40),
			}
		}
		records = append(records, r)
	}
	return records
}

func TestCalculator_ForMember_Properties(t *testing.T) {
	c := NewCalculator(WithLocation(time.UTC))
	asOf := sunday.AddDate(0, 0, 70)

	for seed := int64(1); seed <= 20; seed++ {
		records := semester(seed, 60)

		first, err := c.ForMember(1, "Fall 2026", records, asOf)
		require.NoError(t, err)

		again, err := c.ForMember(1, "Fall 2026", records, asOf)
		require.NoError(t, err)
		assert.Equal(t, first, again, "seed %d: grading is not deterministic", seed)

		sorted := make([]Record, len(records))
		copy(sorted, records)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Event.CallTime.Before(sorted[j].Event.CallTime)
		})
		presorted, err := c.ForMember(1, "Fall 2026", sorted, asOf)
		require.NoError(t, err)
		assert.Equal(t, first, presorted, "seed %d: caller sorting changed the result", seed)

		require.Len(t, first.EventsWithChanges, len(records))
		previous := startingGrade
		for _, ec := range first.EventsWithChanges {
			assert.GreaterOrEqual(t, ec.Change.PartialScore, 0.0)
			assert.LessOrEqual(t, ec.Change.PartialScore, 100.0)
			assert.False(t, ec.Event.CallTime.Before(sunday))

			if ec.Event.CallTime.After(asOf) {
				assert.Zero(t, ec.Change.Change, "future event %d changed the grade", ec.Event.ID)
				assert.Equal(t, previous, ec.Change.PartialScore)
			}
			previous = ec.Change.PartialScore
		}
		assert.Equal(t, previous, first.FinalGrade)
	}
}

func TestCalculator_ForMember_NoAttendanceLeavesScore(t *testing.T) {
	c := NewCalculator(WithLocation(time.UTC))
	records := []Record{
		{Event: event(1, models.EventTypeTuttiGig, 20, at(1, 19)), Attendance: missed()},
		{Event: event(2, models.EventTypeRehearsal, 10, at(2, 19))},
	}

	got, err := c.ForMember(1, "Fall 2026", records, afterSemester)
	require.NoError(t, err)
	require.Len(t, got.EventsWithChanges, 2)
	assert.Equal(t, 0.0, got.EventsWithChanges[1].Change.Change)
	assert.Equal(t, 80.0, got.EventsWithChanges[1].Change.PartialScore)
	assert.Equal(t, "No grades for inactive members", got.EventsWithChanges[1].Change.Reason)
}
