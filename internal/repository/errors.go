package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error code for unique_violation.
const pgUniqueViolation = "23505"

// IsDuplicateKey reports whether err is a unique-constraint violation. A
// concurrent duplicate insert surfaces here instead of as a pre-checked
// conflict, so callers must treat it as the expected "already exists"
// outcome, not an internal failure.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
