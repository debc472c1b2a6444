package service

import (
	"fmt"
	"strings"
	"time"

	"glee-grades-bot/internal/grades"
	"glee-grades-bot/internal/models"
	"glee-grades-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type RecordSource interface {
	RecordsForMember(memberID uint, semester string) ([]grades.Record, error)
}

type GradeService struct {
	records    RecordSource
	snapshots  repository.GradeSnapshotRepository
	semesters  repository.SemesterRepository
	calculator *grades.Calculator
	logger     *logrus.Logger
	nowFunc    func() time.Time
}

func NewGradeService(
	records RecordSource,
	snapshots repository.GradeSnapshotRepository,
	semesters repository.SemesterRepository,
	calculator *grades.Calculator,
) *GradeService {
	return &GradeService{
		records:    records,
		snapshots:  snapshots,
		semesters:  semesters,
		calculator: calculator,
		logger:     newLogger(),
		nowFunc:    time.Now,
	}
}

// ForMember grades the member as of now and refreshes their snapshot.
func (s *GradeService) ForMember(memberID uint, semester string) (grades.Grades, error) {
	known, err := s.semesters.GetByName(semester)
	if err != nil {
		return grades.Grades{}, fmt.Errorf("failed to load semester: %w", err)
	}
	if known == nil {
		return grades.Grades{}, ErrNotFound
	}

	records, err := s.records.RecordsForMember(memberID, semester)
	if err != nil {
		return grades.Grades{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	now := s.nowFunc()
	result, err := s.calculator.ForMember(memberID, semester, records, now)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"member_id": memberID,
			"semester":  semester,
		}).Error("Failed to grade member")
		return grades.Grades{}, err
	}

	s.logChange(memberID, semester, result.FinalGrade)

	snapshot := &models.GradeSnapshot{
		MemberID:              memberID,
		Semester:              semester,
		FinalGrade:            result.FinalGrade,
		VolunteerGigsAttended: result.VolunteerGigsAttended,
		ComputedAt:            now,
	}
	if err := s.snapshots.Upsert(snapshot); err != nil {
		s.logger.WithError(err).WithField("member_id", memberID).Warn("Failed to store grade snapshot")
	}

	s.logger.WithFields(logrus.Fields{
		"member_id":   memberID,
		"semester":    semester,
		"final_grade": result.FinalGrade,
		"events":      len(result.EventsWithChanges),
	}).Debug("Member graded")

	return result, nil
}

func (s *GradeService) logChange(memberID uint, semester string, grade float64) {
	previous, err := s.snapshots.GetByMemberAndSemester(memberID, semester)
	if err != nil || previous == nil || previous.FinalGrade == grade {
		return
	}

	s.logger.WithFields(logrus.Fields{
		"member_id": memberID,
		"semester":  semester,
		"from":      previous.FinalGrade,
		"to":        grade,
	}).Info("Grade changed")
}

// Recalculate regrades every active member of the semester.
func (s *GradeService) Recalculate(semester string) (int, error) {
	ids, err := s.semesters.ActiveMemberIDs(semester)
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		if _, err := s.ForMember(id, semester); err != nil {
			return 0, fmt.Errorf("member %d: %w", id, err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"semester": semester,
		"members":  len(ids),
	}).Info("Semester grades recalculated")

	return len(ids), nil
}

// Roster regrades the semester and returns the fresh snapshots.
func (s *GradeService) Roster(actor *models.Member, semester string) ([]*models.GradeSnapshot, error) {
	if err := requireOfficer(actor); err != nil {
		return nil, err
	}
	if _, err := s.Recalculate(semester); err != nil {
		return nil, err
	}
	return s.snapshots.GetBySemester(semester)
}

// Snapshots returns the last stored grades without recomputing.
func (s *GradeService) Snapshots(semester string) ([]*models.GradeSnapshot, error) {
	return s.snapshots.GetBySemester(semester)
}

func (s *GradeService) FormatGrades(g grades.Grades) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 Attendance grade for %s\n\n", g.Semester)
	fmt.Fprintf(&b, "🎯 Final grade: %.2f\n", g.FinalGrade)
	fmt.Fprintf(&b, "🎤 Volunteer gigs attended: %d\n", g.VolunteerGigsAttended)

	if len(g.EventsWithChanges) == 0 {
		b.WriteString("\n📭 No events yet.")
		return b.String()
	}

	b.WriteString("\n")
	for _, ec := range g.EventsWithChanges {
		sign := ""
		if ec.Change.Change > 0 {
			sign = "+"
		}
		fmt.Fprintf(&b, "• %s %s: %s%.2f → %.2f\n   %s\n",
			ec.Event.CallTime.Format("02.01"),
			ec.Event.Name,
			sign, ec.Change.Change,
			ec.Change.PartialScore,
			ec.Change.Reason,
		)
	}

	return strings.TrimRight(b.String(), "\n")
}

func (s *GradeService) FormatRoster(semester string, snapshots []*models.GradeSnapshot) string {
	if len(snapshots) == 0 {
		return fmt.Sprintf("📭 No grades computed for %s yet.", semester)
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("📋 Grades for %s:", semester))
	lines = append(lines, "")
	for i, snap := range snapshots {
		lines = append(lines, fmt.Sprintf("%d. %s: %.2f (%d volunteer gigs)",
			i+1, snap.Member.FullName(), snap.FinalGrade, snap.VolunteerGigsAttended))
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("🕒 Last computed: %s",
		latestComputed(snapshots).Format("02.01.2006 15:04")))

	return strings.Join(lines, "\n")
}

func latestComputed(snapshots []*models.GradeSnapshot) time.Time {
	var latest time.Time
	for _, snap := range snapshots {
		if snap.ComputedAt.After(latest) {
			latest = snap.ComputedAt
		}
	}
	return latest
}
