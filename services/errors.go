package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("resource not found")

	// ErrNumberExhausted is returned when no free document number could be
	// found within the configured number of attempts.
	ErrNumberExhausted = errors.New("document number attempts exhausted")

	// ErrDuplicateNumber is reported by stores when the (kind, number) unique
	// constraint rejects an insert.
	ErrDuplicateNumber = errors.New("document number already taken")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// NotFoundError names the missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// asNotFound upgrades a bare ErrNotFound from a store into a named one.
func asNotFound(err error, resource, id string) error {
	var named *NotFoundError
	if errors.Is(err, ErrNotFound) && !errors.As(err, &named) {
		return NotFound(resource, id)
	}
	return err
}

// FieldError is one failed check, addressed by its JSON path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is returned when input is rejected. Nothing has been
// written when a caller receives it.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// orNil keeps a nil interface when nothing failed.
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
