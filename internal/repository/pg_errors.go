package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// isDuplicateKeyError reports a unique violation on a constraint whose name
// contains fragment, e.g. "serial" for appointments_serial_number_key.
func isDuplicateKeyError(err error, fragment string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(fragment))
}
