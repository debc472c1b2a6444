package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

var ErrUnknownEventType = errors.New("unknown event type")

// EventType is the grading category of an event.
type EventType int

const (
	EventTypeRehearsal EventType = iota + 1
	EventTypeSectional
	EventTypeVolunteerGig
	EventTypeTuttiGig
	EventTypeOmbuds
	EventTypeOther
)

var eventTypeNames = map[EventType]string{
	EventTypeRehearsal:    "Rehearsal",
	EventTypeSectional:    "Sectional",
	EventTypeVolunteerGig: "Volunteer Gig",
	EventTypeTuttiGig:     "Tutti Gig",
	EventTypeOmbuds:       "Ombuds",
	EventTypeOther:        "Other",
}

// ParseEventType accepts the stored name of an event type.
func ParseEventType(s string) (EventType, error) {
	for t, name := range eventTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEventType, s)
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

func (t EventType) Valid() bool {
	_, ok := eventTypeNames[t]
	return ok
}

// IsGig is true for events that require a performance.
func (t EventType) IsGig() bool {
	return t == EventTypeTuttiGig || t == EventTypeVolunteerGig
}

// Value stores the type by name.
func (t EventType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEventType, int(t))
	}
	return t.String(), nil
}

func (t *EventType) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrUnknownEventType, src)
	}

	parsed, err := ParseEventType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t EventType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEventType, int(t))
	}
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(b []byte) error {
	parsed, err := ParseEventType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Event struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	Semester      string     `gorm:"not null;index" json:"semester"`
	Type          EventType  `gorm:"type:varchar(20);not null" json:"type"`
	CallTime      time.Time  `gorm:"not null;index" json:"call_time"`
	ReleaseTime   *time.Time `json:"release_time"`
	Points        int        `gorm:"not null;default:0" json:"points"`
	Comments      string     `json:"comments"`
	Location      string     `json:"location"`
	GigCount      bool       `gorm:"not null;default:false" json:"gig_count"`
	DefaultAttend bool       `gorm:"not null" json:"default_attend"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// Duration is the length of the event, or an hour when no release time is set.
func (e *Event) Duration() time.Duration {
	if e.ReleaseTime != nil && e.ReleaseTime.After(e.CallTime) {
		return e.ReleaseTime.Sub(e.CallTime)
	}
	return time.Hour
}

// IsValid reports whether the event can be stored.
func (e *Event) IsValid() bool {
	if e.Name == "" || e.Semester == "" {
		return false
	}
	if !e.Type.Valid() {
		return false
	}
	if e.CallTime.IsZero() {
		return false
	}
	if e.ReleaseTime != nil && !e.ReleaseTime.After(e.CallTime) {
		return false
	}
	if e.Points < 0 {
		return false
	}
	return true
}
