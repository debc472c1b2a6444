package grades

import (
	"sort"
	"time"

	"glee-grades-bot/internal/models"
)

// Week holds the records whose call time falls in [Start, Start+7d).
type Week struct {
	Start   time.Time
	Records []Record
}

func (w Week) End() time.Time {
	return w.Start.AddDate(0, 0, 7)
}

// StartOfWeek returns midnight of the Sunday on or before t, in loc.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// Partition sorts a copy of records by call time and groups them into weeks.
// Weeks without events are skipped.
func Partition(records []Record, loc *time.Location) []Week {
	if len(records) == 0 {
		return nil
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Event.CallTime.Before(sorted[j].Event.CallTime)
	})

	var weeks []Week
	last := sorted[len(sorted)-1].Event.CallTime
	i := 0
	for start := StartOfWeek(sorted[0].Event.CallTime, loc); !start.After(last); start = start.AddDate(0, 0, 7) {
		end := start.AddDate(0, 0, 7)
		j := i
		for j < len(sorted) && sorted[j].Event.CallTime.Before(end) {
			j++
		}
		if j > i {
			weeks = append(weeks, Week{Start: start, Records: sorted[i:j:j]})
		}
		i = j
	}

	return weeks
}

func (w Week) MissedRehearsal() bool {
	for _, r := range w.Records {
		if r.Event.Type == models.EventTypeRehearsal && r.DenyCredit() {
			return true
		}
	}
	return false
}

// FirstMissedSectional returns the earliest sectional the member was docked
// for this week, or nil.
func (w Week) FirstMissedSectional() *Record {
	var first *Record
	for i := range w.Records {
		r := &w.Records[i]
		if r.Event.Type != models.EventTypeSectional || !r.DenyCredit() {
			continue
		}
		if first == nil || r.Event.CallTime.Before(first.Event.CallTime) {
			first = r
		}
	}
	return first
}

// AttendedSectional keeps the historical predicate: it is true when any
// sectional of the week denies credit, not when one was attended.
// AttendedAnySectional is the reading the name suggests.
func (w Week) AttendedSectional() bool {
	for _, r := range w.Records {
		if r.Event.Type == models.EventTypeSectional && r.DenyCredit() {
			return true
		}
	}
	return false
}

func (w Week) AttendedAnySectional() bool {
	for _, r := range w.Records {
		if r.Event.Type == models.EventTypeSectional && r.Attendance != nil && r.Attendance.DidAttend {
			return true
		}
	}
	return false
}

// SectionalsPending is true while the week's last sectional is still ahead.
func (w Week) SectionalsPending(asOf time.Time) bool {
	var last *time.Time
	for i := range w.Records {
		r := &w.Records[i]
		if r.Event.Type != models.EventTypeSectional {
			continue
		}
		if last == nil || r.Event.CallTime.After(*last) {
			last = &r.Event.CallTime
		}
	}
	return last != nil && last.After(asOf)
}

// IsBonusEvent reports whether attending r can only raise the grade.
func (w Week) IsBonusEvent(r Record) bool {
	switch r.Event.Type {
	case models.EventTypeVolunteerGig, models.EventTypeOmbuds:
		return true
	case models.EventTypeOther:
		return r.Attendance != nil && !r.Attendance.ShouldAttend
	case models.EventTypeSectional:
		return w.FirstMissedSectional() == nil
	}
	return false
}

func (w Week) AttendedVolunteerGig(r Record) bool {
	return r.Attendance != nil &&
		r.Attendance.DidAttend &&
		!w.MissedRehearsal() &&
		r.Event.Type == models.EventTypeVolunteerGig &&
		r.Event.GigCount
}
