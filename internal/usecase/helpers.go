package usecase

import (
	"errors"
	"strings"

	"clinic-scheduler/internal/session"
	"clinic-scheduler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotAuthenticated = apperror.Unauthorized("authentication required")
	ErrForbidden        = apperror.Forbidden("you don't have permission to access this resource")
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		return pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		return pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return false
}

func requireCapability(actor *session.Session, capability session.Capability) error {
	if actor == nil {
		return ErrNotAuthenticated
	}
	if !actor.Can(capability) {
		return ErrForbidden
	}
	return nil
}

func actorID(actor *session.Session) *uuid.UUID {
	if actor == nil {
		return nil
	}
	id := actor.UserID
	return &id
}

func validationField(field, message string) error {
	return apperror.ValidationFields("Validation failed", map[string]string{field: message})
}

func parseOptionalUUID(field, s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, validationField(field, field+" must be a valid UUID")
	}
	return &id, nil
}
