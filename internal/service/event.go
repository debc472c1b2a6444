package service

import (
	"errors"
	"fmt"
	"strings"

	"glee-grades-bot/internal/models"
	"glee-grades-bot/internal/repository"
	"glee-grades-bot/pkg/schedule"

	"github.com/sirupsen/logrus"
)

type EventService struct {
	events     repository.EventRepository
	semesters  repository.SemesterRepository
	attendance repository.AttendanceRepository
	logger     *logrus.Logger
}

func NewEventService(
	events repository.EventRepository,
	semesters repository.SemesterRepository,
	attendance repository.AttendanceRepository,
) *EventService {
	return &EventService{
		events:     events,
		semesters:  semesters,
		attendance: attendance,
		logger:     newLogger(),
	}
}

// CreateEvent stores the event and gives every active member of its
// semester an attendance row.
func (s *EventService) CreateEvent(actor *models.Member, event *models.Event) error {
	if err := requireOfficer(actor); err != nil {
		return err
	}
	return s.create(event)
}

func (s *EventService) create(event *models.Event) error {
	if err := s.events.Create(event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return s.createAttendance(event)
}

func (s *EventService) createAttendance(event *models.Event) error {
	memberIDs, err := s.semesters.ActiveMemberIDs(event.Semester)
	if err != nil {
		return fmt.Errorf("failed to list active members: %w", err)
	}
	if err := s.attendance.CreateForEvent(event, memberIDs); err != nil {
		return fmt.Errorf("failed to create attendance: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": event.ID,
		"type":     event.Type.String(),
		"members":  len(memberIDs),
	}).Info("Event created")

	return nil
}

// ImportSchedule loads a schedule file; it runs at startup without an actor.
func (s *EventService) ImportSchedule(filePath string) (int, error) {
	events, err := schedule.ParseScheduleJSON(filePath)
	if err != nil {
		return 0, err
	}

	if err := s.events.BulkCreate(events); err != nil {
		return 0, fmt.Errorf("failed to import events: %w", err)
	}
	for i := range events {
		if err := s.createAttendance(&events[i]); err != nil {
			return i, err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"file":   filePath,
		"events": len(events),
	}).Info("Schedule imported")

	return len(events), nil
}

func (s *EventService) ListEvents(semester string) ([]models.Event, error) {
	return s.events.GetBySemester(semester)
}

func (s *EventService) GetEvent(id uint) (*models.Event, error) {
	event, err := s.events.GetByID(id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	return event, nil
}

func (s *EventService) DeleteEvent(actor *models.Member, id uint) error {
	if err := requireOfficer(actor); err != nil {
		return err
	}

	err := s.events.Delete(id)
	if errors.Is(err, repository.ErrEventNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"actor":    actor.ChatID,
		"event_id": id,
	}).Info("Event deleted")

	return nil
}

// SetPoints changes the point value of an event; grades pick it up on the
// next calculation.
func (s *EventService) SetPoints(actor *models.Member, id uint, points int) (*models.Event, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}

	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	event.Points = points
	if err := s.events.Update(event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

func (s *EventService) FormatEvents(events []models.Event) string {
	if len(events) == 0 {
		return "📭 No events scheduled."
	}

	var lines []string
	lines = append(lines, "📅 Events:")
	lines = append(lines, "")
	for _, e := range events {
		line := fmt.Sprintf("#%d %s (%s, %d pts) - %s",
			e.ID, e.Name, e.Type, e.Points, e.CallTime.Format("Mon 02.01 15:04"))
		if e.Location != "" {
			line += " @ " + e.Location
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
