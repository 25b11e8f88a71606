package services

import "errors"

// Common service errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("not authorized")
	ErrInvalidState = errors.New("invalid state transition")
	ErrConflict     = errors.New("conflicting record")
	ErrExpired      = errors.New("invitation expired")
	ErrInvalidPassword = errors.New("invalid password")
)
