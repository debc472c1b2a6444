package service

import (
	"fmt"
	"strings"
	"time"

	"glee-grades-bot/internal/models"
	"glee-grades-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type AbsenceService struct {
	absences repository.AbsenceRequestRepository
	events   repository.EventRepository
	members  repository.MemberRepository
	logger   *logrus.Logger
	nowFunc  func() time.Time
}

func NewAbsenceService(
	absences repository.AbsenceRequestRepository,
	events repository.EventRepository,
	members repository.MemberRepository,
) *AbsenceService {
	return &AbsenceService{
		absences: absences,
		events:   events,
		members:  members,
		logger:   newLogger(),
		nowFunc:  time.Now,
	}
}

// Submit files or amends a pending absence request.
func (s *AbsenceService) Submit(member *models.Member, eventID uint, reason string) (*models.AbsenceRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("a reason is required")
	}

	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}

	request, err := s.absences.Submit(member.ID, eventID, reason, s.nowFunc())
	if err != nil {
		return nil, fmt.Errorf("failed to submit absence request: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"member_id": member.ID,
		"event_id":  eventID,
	}).Info("Absence request submitted")

	return request, nil
}

func (s *AbsenceService) Approve(actor *models.Member, targetChatID int64, eventID uint) error {
	return s.decide(actor, targetChatID, eventID, models.AbsenceApproved)
}

func (s *AbsenceService) Deny(actor *models.Member, targetChatID int64, eventID uint) error {
	return s.decide(actor, targetChatID, eventID, models.AbsenceDenied)
}

func (s *AbsenceService) decide(actor *models.Member, targetChatID int64, eventID uint, state models.AbsenceState) error {
	if err := requireOfficer(actor); err != nil {
		return err
	}

	target, err := s.members.GetByChatID(targetChatID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}

	if err := s.absences.SetState(target.ID, eventID, state); err != nil {
		return fmt.Errorf("failed to update absence request: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"actor":     actor.ChatID,
		"member_id": target.ID,
		"event_id":  eventID,
		"state":     state,
	}).Info("Absence request decided")

	return nil
}

func (s *AbsenceService) Pending(actor *models.Member, semester string) ([]models.AbsenceRequest, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}
	return s.absences.GetPending(semester)
}

func (s *AbsenceService) ForMember(member *models.Member) ([]models.AbsenceRequest, error) {
	return s.absences.GetByMember(member.ID)
}

func (s *AbsenceService) FormatRequests(requests []models.AbsenceRequest) string {
	if len(requests) == 0 {
		return "📭 You have no absence requests."
	}

	stateEmoji := map[models.AbsenceState]string{
		models.AbsencePending:  "⏳",
		models.AbsenceApproved: "✅",
		models.AbsenceDenied:   "❌",
	}

	var lines []string
	lines = append(lines, "📝 Your absence requests:")
	lines = append(lines, "")
	for _, r := range requests {
		lines = append(lines, fmt.Sprintf("%s event #%d %s (%s): %s",
			stateEmoji[r.State], r.EventID, r.Event.Name, r.State, r.Reason))
	}
	return strings.Join(lines, "\n")
}

func (s *AbsenceService) FormatPending(requests []models.AbsenceRequest) string {
	if len(requests) == 0 {
		return "✅ No pending absence requests."
	}

	var lines []string
	lines = append(lines, "📝 Pending absence requests:")
	lines = append(lines, "")
	for _, r := range requests {
		lines = append(lines, fmt.Sprintf("• %s (chat %d), event #%d %s: %s",
			r.Member.FullName(), r.Member.ChatID, r.EventID, r.Event.Name, r.Reason))
	}
	return strings.Join(lines, "\n")
}
