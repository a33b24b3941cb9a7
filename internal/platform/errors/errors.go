package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrCanceled     = errors.New("canceled by operator")
)
