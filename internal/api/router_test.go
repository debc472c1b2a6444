package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"glee-grades-bot/internal/grades"
	"glee-grades-bot/internal/models"
	"glee-grades-bot/internal/repository"
	"glee-grades-bot/internal/service"
)

const fall = "Fall 2020"

type fixture struct {
	handler http.Handler
	grades  *service.GradeService
	member  *models.Member
	event   *models.Event
}

func setup(t *testing.T, origins ...string) fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	memberRepo, err := repository.NewGormMemberRepository(db)
	require.NoError(t, err)
	semesterRepo, err := repository.NewGormSemesterRepository(db)
	require.NoError(t, err)
	eventRepo, err := repository.NewGormEventRepository(db)
	require.NoError(t, err)
	attendanceRepo, err := repository.NewGormAttendanceRepository(db)
	require.NoError(t, err)
	absenceRepo, err := repository.NewGormAbsenceRequestRepository(db)
	require.NoError(t, err)
	snapshotRepo, err := repository.NewGormGradeSnapshotRepository(db)
	require.NoError(t, err)

	members := service.NewMemberService(memberRepo, semesterRepo, eventRepo, attendanceRepo)
	semesters := service.NewSemesterService(semesterRepo)
	events := service.NewEventService(eventRepo, semesterRepo, attendanceRepo)
	gradeService := service.NewGradeService(
		repository.NewGradeRecordSource(eventRepo, attendanceRepo, absenceRepo),
		snapshotRepo,
		semesterRepo,
		grades.NewCalculator(grades.WithLocation(time.UTC)),
	)

	require.NoError(t, members.InitializeAdmin(1))
	admin, err := members.GetByChatID(1)
	require.NoError(t, err)

	call := time.Date(2020, 9, 8, 19, 0, 0, 0, time.UTC)
	_, err = semesters.Create(admin, fall, call.AddDate(0, -1, 0), call.AddDate(0, 3, 0))
	require.NoError(t, err)

	member, err := members.Register(2, "ada", "Ada", "Lovelace", "")
	require.NoError(t, err)
	require.NoError(t, members.JoinSemester(member, fall))

	event := &models.Event{
		Name:          "Weekly Rehearsal",
		Semester:      fall,
		Type:          models.EventTypeRehearsal,
		CallTime:      call,
		Points:        10,
		DefaultAttend: true,
	}
	require.NoError(t, events.CreateEvent(admin, event))

	server := NewServer(members, events, gradeService)
	return fixture{handler: server.Router(origins), grades: gradeService, member: member, event: event}
}

func get(t *testing.T, h http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	f := setup(t)

	rec := get(t, f.handler, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMemberGrades(t *testing.T) {
	f := setup(t)

	rec := get(t, f.handler, "/semesters/Fall%202020/members/2/grades")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got grades.Grades
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, f.member.ID, got.MemberID)
	assert.Equal(t, fall, got.Semester)
	assert.Equal(t, 90.0, got.FinalGrade)
	require.Len(t, got.EventsWithChanges, 1)
	assert.Equal(t, models.EventTypeRehearsal, got.EventsWithChanges[0].Event.Type)
	assert.Equal(t, -10.0, got.EventsWithChanges[0].Change.Change)

	rec = get(t, f.handler, "/semesters/Fall%202020/roster")
	require.Equal(t, http.StatusOK, rec.Code)
	var roster []rosterEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roster))
	require.Len(t, roster, 1)
	assert.Equal(t, "Ada Lovelace", roster[0].Name)
	assert.Equal(t, 90.0, roster[0].FinalGrade)
}

func TestMemberGrades_Errors(t *testing.T) {
	f := setup(t)

	rec := get(t, f.handler, "/semesters/Fall%202020/members/abc/grades")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, f.handler, "/semesters/Fall%202020/members/404/grades")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMemberGrades_UnknownSemester(t *testing.T) {
	f := setup(t)

	rec := get(t, f.handler, "/semesters/No%20Such%20Semester/members/2/grades")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	snapshots, err := f.grades.Snapshots("No Such Semester")
	require.NoError(t, err)
	assert.Empty(t, snapshots)

	rec = get(t, f.handler, "/semesters/No%20Such%20Semester/roster")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListEvents(t *testing.T) {
	f := setup(t)

	rec := get(t, f.handler, "/semesters/Fall%202020/events")
	require.Equal(t, http.StatusOK, rec.Code)

	var events []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Weekly Rehearsal", events[0]["name"])
	assert.Equal(t, "Rehearsal", events[0]["type"])

	rec = get(t, f.handler, "/semesters/Spring%202021/events")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	f := setup(t, "https://glee.example.edu")

	rec := get(t, f.handler, "/healthz", "Origin", "https://glee.example.edu")
	assert.Equal(t, "https://glee.example.edu", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(t, f.handler, "/healthz", "Origin", "https://evil.example.com")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
