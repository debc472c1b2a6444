package service

import (
	"errors"

	"glee-grades-bot/internal/models"
)

var (
	ErrPermissionDenied  = errors.New("permission denied: officers only")
	ErrNotFound          = errors.New("not found")
	ErrNoCurrentSemester = errors.New("no current semester")
	ErrEventStarted      = errors.New("event has already started")
	ErrAbsenceRequired   = errors.New("required event: file an absence request instead")
)

func requireOfficer(actor *models.Member) error {
	if actor == nil || !actor.IsOfficer() {
		return ErrPermissionDenied
	}
	return nil
}
