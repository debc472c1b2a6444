package repository

import (
	"glee-grades-bot/internal/grades"
)

// GradeRecordSource joins a member's semester events with attendance and
// approved absences into grading input.
type GradeRecordSource struct {
	events     EventRepository
	attendance AttendanceRepository
	absences   AbsenceRequestRepository
}

func NewGradeRecordSource(events EventRepository, attendance AttendanceRepository, absences AbsenceRequestRepository) *GradeRecordSource {
	return &GradeRecordSource{
		events:     events,
		attendance: attendance,
		absences:   absences,
	}
}

// RecordsForMember returns every event of the semester in call-time order.
// Events the member has no attendance row for carry a nil Attendance.
func (s *GradeRecordSource) RecordsForMember(memberID uint, semester string) ([]grades.Record, error) {
	events, err := s.events.GetBySemester(semester)
	if err != nil {
		return nil, err
	}

	rows, err := s.attendance.GetByMemberAndSemester(memberID, semester)
	if err != nil {
		return nil, err
	}
	byEvent := make(map[uint]int, len(rows))
	for i := range rows {
		byEvent[rows[i].EventID] = i
	}

	approved, err := s.absences.ApprovedEventIDs(memberID, semester)
	if err != nil {
		return nil, err
	}

	records := make([]grades.Record, 0, len(events))
	for _, e := range events {
		record := grades.Record{Event: e, ApprovedAbsence: approved[e.ID]}
		if i, ok := byEvent[e.ID]; ok {
			a := rows[i]
			record.Attendance = &a
		}
		records = append(records, record)
	}

	return records, nil
}
