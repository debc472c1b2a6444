package service

import (
	"fmt"
	"strings"

	"glee-grades-bot/internal/models"
	"glee-grades-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type MemberService struct {
	members    repository.MemberRepository
	semesters  repository.SemesterRepository
	events     repository.EventRepository
	attendance repository.AttendanceRepository
	logger     *logrus.Logger
}

func NewMemberService(
	members repository.MemberRepository,
	semesters repository.SemesterRepository,
	events repository.EventRepository,
	attendance repository.AttendanceRepository,
) *MemberService {
	return &MemberService{
		members:    members,
		semesters:  semesters,
		events:     events,
		attendance: attendance,
		logger:     newLogger(),
	}
}

// Register creates a regular member for a chat.
func (s *MemberService) Register(chatID int64, username, firstName, lastName, email string) (*models.Member, error) {
	if firstName == "" {
		return nil, fmt.Errorf("first name is required")
	}

	member := &models.Member{
		ChatID:    chatID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Role:      models.RoleMember,
	}
	if err := s.members.Create(member); err != nil {
		return nil, fmt.Errorf("failed to register member: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"member_id": member.ID,
		"chat_id":   chatID,
	}).Info("Member registered")

	return member, nil
}

// GetByChatID returns ErrNotFound for unknown chats.
func (s *MemberService) GetByChatID(chatID int64) (*models.Member, error) {
	member, err := s.members.GetByChatID(chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, ErrNotFound
	}
	return member, nil
}

func (s *MemberService) GetByID(id uint) (*models.Member, error) {
	member, err := s.members.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, ErrNotFound
	}
	return member, nil
}

// UpdateRole changes a member's role; only admins may do it.
func (s *MemberService) UpdateRole(actor *models.Member, targetChatID int64, role models.Role) error {
	if actor == nil || !actor.IsAdmin() {
		return ErrPermissionDenied
	}

	if err := s.members.UpdateRole(targetChatID, role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"actor":  actor.ChatID,
		"target": targetChatID,
		"role":   role,
	}).Info("Member role updated")

	return nil
}

// InitializeAdmin makes sure the configured chat is an admin.
func (s *MemberService) InitializeAdmin(adminChatID int64) error {
	if adminChatID == 0 {
		return nil
	}

	existing, err := s.members.GetByChatID(adminChatID)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.members.UpdateRole(adminChatID, models.RoleAdmin)
	}

	return s.members.Create(&models.Member{
		ChatID:    adminChatID,
		Username:  "admin",
		FirstName: "Administrator",
		Role:      models.RoleAdmin,
	})
}

// JoinSemester marks the member active and gives them an attendance row for
// every event already scheduled in the semester.
func (s *MemberService) JoinSemester(member *models.Member, semester string) error {
	enrolled, err := s.semesters.Enroll(member.ID, semester)
	if err != nil {
		return fmt.Errorf("failed to enroll member: %w", err)
	}
	if !enrolled {
		return fmt.Errorf("already active in %s", semester)
	}

	events, err := s.events.GetBySemester(semester)
	if err != nil {
		return fmt.Errorf("failed to load semester events: %w", err)
	}
	if err := s.attendance.CreateForMember(member.ID, events); err != nil {
		return fmt.Errorf("failed to create attendance: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"member_id": member.ID,
		"semester":  semester,
		"events":    len(events),
	}).Info("Member joined semester")

	return nil
}

// UpdateProfile replaces the member's name and email.
func (s *MemberService) UpdateProfile(member *models.Member, firstName, lastName, email string) (*models.Member, error) {
	if firstName == "" {
		return nil, fmt.Errorf("first name is required")
	}

	member.FirstName = firstName
	member.LastName = lastName
	member.Email = email
	if err := s.members.Update(member); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return member, nil
}

// DeleteProfile removes the member and everything recorded about them.
func (s *MemberService) DeleteProfile(chatID int64) error {
	if err := s.members.Delete(chatID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	s.logger.WithField("chat_id", chatID).Info("Member deleted")
	return nil
}

// LeaveSemester makes the member inactive; their attendance rows stay.
func (s *MemberService) LeaveSemester(member *models.Member, semester string) error {
	active, err := s.semesters.IsActive(member.ID, semester)
	if err != nil {
		return err
	}
	if !active {
		return fmt.Errorf("not active in %s", semester)
	}

	if err := s.semesters.Leave(member.ID, semester); err != nil {
		return fmt.Errorf("failed to leave semester: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"member_id": member.ID,
		"semester":  semester,
	}).Info("Member left semester")

	return nil
}

func (s *MemberService) GetAll() ([]*models.Member, error) {
	return s.members.GetAll()
}

func (s *MemberService) GetOfficers() ([]*models.Member, error) {
	return s.members.GetOfficers()
}

func (s *MemberService) FormatMember(member *models.Member) string {
	var lines []string

	lines = append(lines, "👤 Member profile:")
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("🆔 Chat ID: %d", member.ChatID))
	if member.Username != "" {
		lines = append(lines, fmt.Sprintf("📛 Username: @%s", member.Username))
	}
	lines = append(lines, fmt.Sprintf("👨‍🎤 Name: %s", member.FullName()))
	if member.Email != "" {
		lines = append(lines, fmt.Sprintf("✉️ Email: %s", member.Email))
	}

	roleEmoji := "👤"
	if member.IsOfficer() {
		roleEmoji = "👑"
	}
	lines = append(lines, fmt.Sprintf("%s Role: %s", roleEmoji, string(member.Role)))

	return strings.Join(lines, "\n")
}
