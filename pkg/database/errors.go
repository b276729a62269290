package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation    = "23505"
	exclusionViolation = "23P01"
)

// IsConflict reports whether err is a storage-level uniqueness or exclusion
// violation, i.e. the losing side of a concurrent write race.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation || pgErr.Code == exclusionViolation
	}
	return false
}
