package service

import (
	"errors"

	"github.com/hostelhq/reservation-service/pkg/database"
)

// Business-rule errors. Handlers branch on these with errors.Is to choose a
// status code; none of them leaks a raw storage error to the caller.
var (
	ErrValidation          = errors.New("invalid request")
	ErrNotFound            = errors.New("reservation, bed or guest not found")
	ErrInvalidStatus       = errors.New("reservation is not in an actionable status")
	ErrBedUnavailable      = errors.New("bed is not available for the requested dates")
	ErrDuplicateAssignment = errors.New("bed assigned to more than one guest in the same batch")
	ErrGenderMismatch      = errors.New("guest gender does not match room eligibility")
	ErrOverlapConflict     = errors.New("extension conflicts with another reservation's hold on the bed")
	ErrNegativeBalance     = errors.New("checkout reduction would drive billing below zero")
	ErrOverpayment         = errors.New("payment exceeds remaining balance")
	ErrScheduleOverlap     = errors.New("gender schedule overlaps an existing one for the room")
)

// classifyConflict maps the losing side of a storage-level write race (unique
// or exclusion violation at commit) to the given business error; everything
// else passes through unchanged.
func classifyConflict(err, conflict error) error {
	if database.IsConflict(err) {
		return conflict
	}
	return err
}
