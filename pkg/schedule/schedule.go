package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"glee-grades-bot/internal/models"
)

// ScheduleJSON is the on-disk layout of a semester schedule.
type ScheduleJSON struct {
	Semester string      `json:"semester"`
	Events   []EventJSON `json:"events"`
}

type EventJSON struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Call          string `json:"call"`
	Release       string `json:"release"`
	Points        int    `json:"points"`
	GigCount      bool   `json:"gig_count"`
	DefaultAttend *bool  `json:"default_attend"`
	Location      string `json:"location"`
	Comments      string `json:"comments"`
}

// ParseScheduleJSON reads a schedule file and returns events ready to store.
func ParseScheduleJSON(filePath string) ([]models.Event, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}

	return ParseSchedule(data)
}

func ParseSchedule(data []byte) ([]models.Event, error) {
	var schedule ScheduleJSON
	if err := json.Unmarshal(data, &schedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}
	if schedule.Semester == "" {
		return nil, fmt.Errorf("schedule has no semester")
	}

	events := make([]models.Event, 0, len(schedule.Events))
	for i, raw := range schedule.Events {
		event, err := raw.toEvent(schedule.Semester)
		if err != nil {
			return nil, fmt.Errorf("event %d (%q): %w", i, raw.Name, err)
		}
		events = append(events, event)
	}

	return events, nil
}

func (e EventJSON) toEvent(semester string) (models.Event, error) {
	typ, err := models.ParseEventType(e.Type)
	if err != nil {
		return models.Event{}, err
	}

	call, err := time.Parse(time.RFC3339, e.Call)
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to parse call time: %w", err)
	}

	event := models.Event{
		Name:          e.Name,
		Semester:      semester,
		Type:          typ,
		CallTime:      call,
		Points:        e.Points,
		GigCount:      e.GigCount,
		DefaultAttend: true,
		Location:      e.Location,
		Comments:      e.Comments,
	}
	if e.DefaultAttend != nil {
		event.DefaultAttend = *e.DefaultAttend
	}

	if e.Release != "" {
		release, err := time.Parse(time.RFC3339, e.Release)
		if err != nil {
			return models.Event{}, fmt.Errorf("failed to parse release time: %w", err)
		}
		if !release.After(call) {
			return models.Event{}, fmt.Errorf("release time %s is not after call time %s", e.Release, e.Call)
		}
		event.ReleaseTime = &release
	}

	if !event.IsValid() {
		return models.Event{}, fmt.Errorf("invalid event")
	}

	return event, nil
}
