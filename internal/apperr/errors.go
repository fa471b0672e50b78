package apperr

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrCorruptRecord       = errors.New("corrupt record")
	ErrInvalidImportFormat = errors.New("invalid import format")
)
