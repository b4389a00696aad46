package services

import (
	"errors"

	"casaligan-admin-server/models"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidStatus   = errors.New("invalid booking status")
	ErrWindowTooLarge  = errors.New("requested page window is too large")
	ErrInvalidRange    = errors.New("invalid date range")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAdmin           = errors.New("account is not an administrator")
	ErrAccountInactive    = errors.New("account is not active")
	ErrUserNotFound       = errors.New("user not found")
)

// SourceWarning reports a degraded part of a response. The data alongside it
// is still usable.
type SourceWarning struct {
	Source  string `json:"source"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func newWarning(source string, err error) SourceWarning {
	return SourceWarning{Source: source, Message: err.Error(), Err: err}
}

// Actor is the authenticated admin behind a mutation.
type Actor struct {
	UserID  uint
	AdminID uint
}

type BookingPage struct {
	Rows     []models.UnifiedBooking
	Total    int64
	Warnings []SourceWarning
}
