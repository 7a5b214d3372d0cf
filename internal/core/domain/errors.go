package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUsername  = errors.New("username already in use")
	ErrUnknownRole        = errors.New("role does not exist")
	ErrRoleMissing        = errors.New("partner role is not configured")
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleInUse          = errors.New("role is assigned to users")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPersistence        = errors.New("persistence failure")
	ErrMailQueueFull      = errors.New("mail queue full")

	ErrBreakfastNotFound = errors.New("breakfast attendance not found")
	ErrRateNotFound      = errors.New("rate not found")
	ErrCenterNotFound    = errors.New("center not found")
)
