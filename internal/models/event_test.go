package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventType(t *testing.T) {
	tests := []struct {
		in      string
		want    EventType
		wantErr error
	}{
		{in: "Rehearsal", want: EventTypeRehearsal},
		{in: "Sectional", want: EventTypeSectional},
		{in: "Volunteer Gig", want: EventTypeVolunteerGig},
		{in: "Tutti Gig", want: EventTypeTuttiGig},
		{in: "Ombuds", want: EventTypeOmbuds},
		{in: "Other", want: EventTypeOther},
		{in: "rehearsal", wantErr: ErrUnknownEventType},
		{in: "", wantErr: ErrUnknownEventType},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEventType(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestEventType_ScanValue(t *testing.T) {
	v, err := EventTypeTuttiGig.Value()
	require.NoError(t, err)
	assert.Equal(t, "Tutti Gig", v)

	_, err = EventType(0).Value()
	assert.ErrorIs(t, err, ErrUnknownEventType)

	var got EventType
	require.NoError(t, got.Scan([]byte("Volunteer Gig")))
	assert.Equal(t, EventTypeVolunteerGig, got)

	assert.ErrorIs(t, got.Scan("Banquet"), ErrUnknownEventType)
	assert.ErrorIs(t, got.Scan(12), ErrUnknownEventType)
}

func TestEventType_IsGig(t *testing.T) {
	assert.True(t, EventTypeTuttiGig.IsGig())
	assert.True(t, EventTypeVolunteerGig.IsGig())
	assert.False(t, EventTypeRehearsal.IsGig())
	assert.False(t, EventTypeOmbuds.IsGig())
}

func TestEvent_IsValid(t *testing.T) {
	call := time.Date(2026, 9, 8, 19, 0, 0, 0, time.UTC)
	later := call.Add(2 * time.Hour)
	earlier := call.Add(-time.Minute)

	base := Event{Name: "Rehearsal", Semester: "Fall 2026", Type: EventTypeRehearsal, CallTime: call, Points: 10}

	withRelease := func(t *time.Time) Event { e := base; e.ReleaseTime = t; return e }
	withPoints := func(p int) Event { e := base; e.Points = p; return e }
	withType := func(tp EventType) Event { e := base; e.Type = tp; return e }

	tests := []struct {
		name  string
		event Event
		want  bool
	}{
		{name: "valid", event: base, want: true},
		{name: "release after call", event: withRelease(&later), want: true},
		{name: "release before call", event: withRelease(&earlier), want: false},
		{name: "release equals call", event: withRelease(&call), want: false},
		{name: "negative points", event: withPoints(-1), want: false},
		{name: "unknown type", event: withType(EventType(99)), want: false},
		{name: "no semester", event: Event{Name: "x", Type: EventTypeOther, CallTime: call}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.IsValid())
		})
	}

	assert.Equal(t, time.Hour, base.Duration())
	e := withRelease(&later)
	assert.Equal(t, 2*time.Hour, e.Duration())
}
