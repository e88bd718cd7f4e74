package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup or targeted write matches no row.
	ErrNotFound = gorm.ErrRecordNotFound

	// ErrInUse is returned when a delete is blocked by a foreign key.
	ErrInUse = errors.New("record is referenced by other records")

	ErrInviteInvalid = errors.New("invite is invalid or already used")
	ErrInviteExpired = errors.New("invite has expired")
	ErrEmailTaken    = errors.New("email already registered")
	ErrDuplicateCode = errors.New("invite code already exists")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isUniqueViolation(err error) bool {
	return isPgError(err, pgUniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return isPgError(err, pgForeignKeyViolation)
}
