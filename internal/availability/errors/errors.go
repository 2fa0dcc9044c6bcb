package errors

import "errors"

var (
	ErrNotFound = errors.New("availability not found")

	ErrInvalidID = errors.New("invalid availability ID format")

	ErrDuplicateTutor = errors.New("availability already exists for tutor")
)
