package repos

import (
  "errors"
  "strings"
  "github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolation reports whether err came from a unique-index conflict.
// Postgres surfaces these as SQLSTATE 23505 through pgx; the sqlite driver
// used in tests only gives us the message text.
func IsUniqueViolation(err error) bool {
  if err == nil {
    return false
  }
  var pgErr *pgconn.PgError
  if errors.As(err, &pgErr) {
    return pgErr.Code == "23505"
  }
  return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
