package service

import (
	"fmt"
	"strings"
	"time"

	"glee-grades-bot/internal/models"
	"glee-grades-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type AttendanceService struct {
	attendance repository.AttendanceRepository
	events     repository.EventRepository
	members    repository.MemberRepository
	logger     *logrus.Logger
	nowFunc    func() time.Time
}

func NewAttendanceService(
	attendance repository.AttendanceRepository,
	events repository.EventRepository,
	members repository.MemberRepository,
) *AttendanceService {
	return &AttendanceService{
		attendance: attendance,
		events:     events,
		members:    members,
		logger:     newLogger(),
		nowFunc:    time.Now,
	}
}

func (s *AttendanceService) get(memberID, eventID uint) (*models.Attendance, error) {
	a, err := s.attendance.Get(memberID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// RSVP confirms the member's plans before the event starts. Required events
// can only be confirmed; skipping them goes through an absence request.
func (s *AttendanceService) RSVP(member *models.Member, eventID uint, attending bool) (*models.Attendance, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	if !event.CallTime.After(s.nowFunc()) {
		return nil, ErrEventStarted
	}
	if event.DefaultAttend && !attending {
		return nil, ErrAbsenceRequired
	}

	a, err := s.get(member.ID, eventID)
	if err != nil {
		return nil, err
	}

	if !event.DefaultAttend {
		a.ShouldAttend = attending
	}
	a.Confirmed = true
	if err := s.attendance.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

// RecordAttendance marks a member present, optionally late.
func (s *AttendanceService) RecordAttendance(actor *models.Member, targetChatID int64, eventID uint, minutesLate int) (*models.Attendance, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}
	if minutesLate < 0 {
		return nil, fmt.Errorf("minutes late cannot be negative")
	}

	target, err := s.members.GetByChatID(targetChatID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	a, err := s.get(target.ID, eventID)
	if err != nil {
		return nil, err
	}
	a.DidAttend = true
	a.MinutesLate = minutesLate
	if err := s.attendance.Update(a); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"actor":        actor.ChatID,
		"member_id":    target.ID,
		"event_id":     eventID,
		"minutes_late": minutesLate,
	}).Info("Attendance recorded")

	return a, nil
}

// ForEvent lists the attendance rows of an event for officers.
func (s *AttendanceService) ForEvent(actor *models.Member, eventID uint) ([]models.Attendance, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}
	return s.attendance.GetByEvent(eventID)
}

func (s *AttendanceService) FormatAttendance(eventID uint, rows []models.Attendance) string {
	if len(rows) == 0 {
		return fmt.Sprintf("📭 Nobody is expected at event #%d.", eventID)
	}

	present := 0
	var lines []string
	lines = append(lines, fmt.Sprintf("🎼 Attendance for event #%d:", eventID))
	lines = append(lines, "")
	for _, a := range rows {
		name := fmt.Sprintf("member %d", a.MemberID)
		if member, err := s.members.GetByID(a.MemberID); err == nil && member != nil {
			name = fmt.Sprintf("%s (%d)", member.FullName(), member.ChatID)
		}

		status := "❌ absent"
		switch {
		case a.DidAttend && a.MinutesLate > 0:
			status = fmt.Sprintf("⏰ %d min late", a.MinutesLate)
			present++
		case a.DidAttend:
			status = "✅ present"
			present++
		case !a.ShouldAttend:
			status = "➖ not required"
		}
		lines = append(lines, fmt.Sprintf("• %s: %s", name, status))
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("👥 %d of %d present", present, len(rows)))
	return strings.Join(lines, "\n")
}

// Excuse removes the expectation to attend.
func (s *AttendanceService) Excuse(actor *models.Member, targetChatID int64, eventID uint) (*models.Attendance, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}

	target, err := s.members.GetByChatID(targetChatID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrNotFound
	}

	a, err := s.get(target.ID, eventID)
	if err != nil {
		return nil, err
	}
	a.ShouldAttend = false
	if err := s.attendance.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}
