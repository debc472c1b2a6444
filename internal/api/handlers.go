package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"glee-grades-bot/internal/models"
	"glee-grades-bot/internal/service"

	"github.com/go-chi/chi/v5"
)

// GET /semesters/{semester}/members/{memberID}/grades
func (s *Server) memberGrades(w http.ResponseWriter, r *http.Request) {
	semester, ok := semesterParam(w, r)
	if !ok {
		return
	}

	memberID, err := strconv.ParseUint(chi.URLParam(r, "memberID"), 10, 32)
	if err != nil {
		http.Error(w, "memberID must be a positive integer", http.StatusBadRequest)
		return
	}

	member, err := s.members.GetByID(uint(memberID))
	if errors.Is(err, service.ErrNotFound) {
		http.Error(w, "member not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, "load member", err)
		return
	}

	result, err := s.grades.ForMember(member.ID, semester)
	if errors.Is(err, service.ErrNotFound) {
		http.Error(w, "semester not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.internalError(w, "calculate grades", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GET /semesters/{semester}/events
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	semester, ok := semesterParam(w, r)
	if !ok {
		return
	}

	events, err := s.events.ListEvents(semester)
	if err != nil {
		s.internalError(w, "list events", err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	respondJSON(w, http.StatusOK, events)
}

type rosterEntry struct {
	MemberID              uint      `json:"member_id"`
	Name                  string    `json:"name"`
	FinalGrade            float64   `json:"final_grade"`
	VolunteerGigsAttended int       `json:"volunteer_gigs_attended"`
	ComputedAt            time.Time `json:"computed_at"`
}

// GET /semesters/{semester}/roster
func (s *Server) roster(w http.ResponseWriter, r *http.Request) {
	semester, ok := semesterParam(w, r)
	if !ok {
		return
	}

	snapshots, err := s.grades.Snapshots(semester)
	if err != nil {
		s.internalError(w, "load roster", err)
		return
	}

	entries := make([]rosterEntry, 0, len(snapshots))
	for _, snap := range snapshots {
		entries = append(entries, rosterEntry{
			MemberID:              snap.MemberID,
			Name:                  snap.Member.FullName(),
			FinalGrade:            snap.FinalGrade,
			VolunteerGigsAttended: snap.VolunteerGigsAttended,
			ComputedAt:            snap.ComputedAt,
		})
	}

	respondJSON(w, http.StatusOK, entries)
}

func semesterParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	semester, err := url.PathUnescape(chi.URLParam(r, "semester"))
	if err != nil || strings.TrimSpace(semester) == "" {
		http.Error(w, "semester required", http.StatusBadRequest)
		return "", false
	}
	return semester, true
}

func (s *Server) internalError(w http.ResponseWriter, action string, err error) {
	s.logger.WithError(err).Error("Failed to " + action)
	http.Error(w, action+": "+err.Error(), http.StatusInternalServerError)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
