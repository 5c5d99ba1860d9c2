package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// Error kinds a caller can tell apart with errors.Is / errors.As.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// re-exported so handlers only depend on this package
	ErrForbidden       = policy.ErrForbidden
	ErrUnauthenticated = policy.ErrUnauthenticated
)

// ValidationError carries per-field messages back to the caller
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

func conflict(detail string) error {
	return fmt.Errorf("%w: %s", ErrConflict, detail)
}

// translate turns repository errors into service error kinds
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(entity)
	case errors.Is(err, repository.ErrDuplicate):
		return conflict(entity + " already exists")
	default:
		return err
	}
}

func isDuplicateErr(err error) bool {
	return errors.Is(err, repository.ErrDuplicate)
}
