package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUNIQUEConstraintFailed = errors.New("unique constraint failed")
	ErrInternal               = errors.New("internal server error")
	ErrForbidden              = errors.New("access denied")
	ErrInvalidParams          = errors.New("invalid params")
	ErrInvalidState           = errors.New("invalid state")
	ErrUserNotFound           = errors.New("user not found")
	ErrFailedToAddUser        = errors.New("failed to add user")
	ErrUserExists             = errors.New("user already exists")
	ErrDocumentNotFound       = errors.New("document not found")
	ErrShareNotFound          = errors.New("share not found")
	ErrEntityNotFound         = errors.New("entity not found")
	ErrSessionNotFound        = errors.New("session not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrMethodNotAllowed       = errors.New("method not allowed")
)

type UniqueConstraintError struct {
	Constraint string
	Err        error
}

func (e *UniqueConstraintError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Constraint)
}

func (e *UniqueConstraintError) Unwrap() error {
	return e.Err
}

// UnknownUsersError reports share targets that do not exist or are inactive.
type UnknownUsersError struct {
	IDs []string
}

func (e *UnknownUsersError) Error() string {
	return fmt.Sprintf("%v: unknown or inactive users: %s", ErrInvalidParams, strings.Join(e.IDs, ", "))
}

func (e *UnknownUsersError) Unwrap() error {
	return ErrInvalidParams
}

// EntityNotFoundError names the entity type that failed the existence check.
type EntityNotFoundError struct {
	Type EntityType
	ID   string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%v: %s %q", ErrEntityNotFound, e.Type, e.ID)
}

func (e *EntityNotFoundError) Unwrap() error {
	return ErrEntityNotFound
}
