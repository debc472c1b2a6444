package service

import (
	"fmt"
	"strings"
	"time"

	"glee-grades-bot/internal/models"
	"glee-grades-bot/internal/repository"
)

type SemesterService struct {
	repo repository.SemesterRepository
}

func NewSemesterService(repo repository.SemesterRepository) *SemesterService {
	return &SemesterService{repo: repo}
}

// Create adds a semester and makes it current when none is.
func (s *SemesterService) Create(actor *models.Member, name string, start, end time.Time) (*models.Semester, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}

	semester := &models.Semester{Name: name, StartDate: start, EndDate: end}
	if err := s.repo.Create(semester); err != nil {
		return nil, fmt.Errorf("failed to create semester: %w", err)
	}

	current, err := s.repo.GetCurrent()
	if err != nil {
		return nil, err
	}
	if current == nil {
		if err := s.repo.SetCurrent(name); err != nil {
			return nil, err
		}
		semester.Current = true
	}

	return semester, nil
}

func (s *SemesterService) SetCurrent(actor *models.Member, name string) error {
	if err := requireOfficer(actor); err != nil {
		return err
	}
	if _, err := s.Get(name); err != nil {
		return err
	}
	return s.repo.SetCurrent(name)
}

// Current returns ErrNoCurrentSemester when none is set.
func (s *SemesterService) Current() (*models.Semester, error) {
	semester, err := s.repo.GetCurrent()
	if err != nil {
		return nil, err
	}
	if semester == nil {
		return nil, ErrNoCurrentSemester
	}
	return semester, nil
}

func (s *SemesterService) List() ([]*models.Semester, error) {
	return s.repo.GetAll()
}

func (s *SemesterService) FormatSemesters(semesters []*models.Semester) string {
	if len(semesters) == 0 {
		return "📭 No semesters yet."
	}

	var lines []string
	lines = append(lines, "🗓 Semesters:")
	lines = append(lines, "")
	for _, sem := range semesters {
		line := fmt.Sprintf("• %s: %s to %s", sem.Name,
			sem.StartDate.Format("02.01.2006"), sem.EndDate.AddDate(0, 0, -1).Format("02.01.2006"))
		if sem.Current {
			line += " ⭐ current"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (s *SemesterService) Get(name string) (*models.Semester, error) {
	semester, err := s.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if semester == nil {
		return nil, ErrNotFound
	}
	return semester, nil
}
