package service

import (
	"errors"

	"truckrental/internal/database"
	"truckrental/internal/domain"
)

// storageErr converts storage sentinels into domain errors for resource.
func storageErr(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound):
		return domain.NotFoundError{Resource: resource, Err: err}
	case errors.Is(err, database.ErrDuplicate):
		return domain.ConflictError{Resource: resource, Msg: "Email already exists", Err: err}
	default:
		return err
	}
}

// resultLabel classifies err for the transition metric.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsValidation(err):
		return "validation"
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsInvalidState(err):
		return "invalid_state"
	case domain.IsConflict(err):
		return "conflict"
	default:
		return "error"
	}
}
