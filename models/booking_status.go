package models

import (
	"errors"
	"fmt"
)

type UnifiedStatus string

const (
	StatusPending   UnifiedStatus = "pending"
	StatusConfirmed UnifiedStatus = "confirmed"
	StatusCompleted UnifiedStatus = "completed"
	StatusCancelled UnifiedStatus = "cancelled"
)

var UnifiedStatuses = []UnifiedStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

type ContractStatus string

const (
	ContractStatusPending           ContractStatus = "pending"
	ContractStatusActive            ContractStatus = "active"
	ContractStatusPendingCompletion ContractStatus = "pending_completion"
	ContractStatusCompleted         ContractStatus = "completed"
	ContractStatusCancelled         ContractStatus = "cancelled"
)

type DirectHireStatus string

const (
	DirectHireStatusPending           DirectHireStatus = "pending"
	DirectHireStatusAccepted          DirectHireStatus = "accepted"
	DirectHireStatusInProgress        DirectHireStatus = "in_progress"
	DirectHireStatusPendingCompletion DirectHireStatus = "pending_completion"
	DirectHireStatusCompleted         DirectHireStatus = "completed"
	DirectHireStatusPaid              DirectHireStatus = "paid"
	DirectHireStatusCancelled         DirectHireStatus = "cancelled"
	DirectHireStatusRejected          DirectHireStatus = "rejected"
)

var (
	ErrUnknownNativeStatus  = errors.New("unknown native booking status")
	ErrInvalidUnifiedStatus = errors.New("invalid booking status")
	ErrUnknownBookingSource = errors.New("unknown booking source")
)

type statusVocabulary struct {
	// order fixes the iteration order of the read table
	order []string
	read  map[string]UnifiedStatus
	write map[UnifiedStatus]string
}

var vocabularies = map[BookingSource]statusVocabulary{
	SourceContract: {
		order: []string{
			string(ContractStatusPending),
			string(ContractStatusActive),
			string(ContractStatusPendingCompletion),
			string(ContractStatusCompleted),
			string(ContractStatusCancelled),
		},
		read: map[string]UnifiedStatus{
			string(ContractStatusPending):           StatusPending,
			string(ContractStatusActive):            StatusConfirmed,
			string(ContractStatusPendingCompletion): StatusConfirmed,
			string(ContractStatusCompleted):         StatusCompleted,
			string(ContractStatusCancelled):         StatusCancelled,
		},
		write: map[UnifiedStatus]string{
			StatusPending:   string(ContractStatusPending),
			StatusConfirmed: string(ContractStatusActive),
			StatusCompleted: string(ContractStatusCompleted),
			StatusCancelled: string(ContractStatusCancelled),
		},
	},
	SourceDirectHire: {
		order: []string{
			string(DirectHireStatusPending),
			string(DirectHireStatusAccepted),
			string(DirectHireStatusInProgress),
			string(DirectHireStatusPendingCompletion),
			string(DirectHireStatusPaid),
			string(DirectHireStatusCompleted),
			string(DirectHireStatusCancelled),
			string(DirectHireStatusRejected),
		},
		read: map[string]UnifiedStatus{
			string(DirectHireStatusPending):           StatusPending,
			string(DirectHireStatusAccepted):          StatusConfirmed,
			string(DirectHireStatusInProgress):        StatusConfirmed,
			string(DirectHireStatusPendingCompletion): StatusConfirmed,
			string(DirectHireStatusPaid):              StatusCompleted,
			string(DirectHireStatusCompleted):         StatusCompleted,
			string(DirectHireStatusCancelled):         StatusCancelled,
			string(DirectHireStatusRejected):          StatusCancelled,
		},
		write: map[UnifiedStatus]string{
			StatusPending:   string(DirectHireStatusPending),
			StatusConfirmed: string(DirectHireStatusAccepted),
			StatusCompleted: string(DirectHireStatusPaid),
			StatusCancelled: string(DirectHireStatusCancelled),
		},
	},
}

func (s UnifiedStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ParseUnifiedStatus validates console input.
func ParseUnifiedStatus(raw string) (UnifiedStatus, error) {
	s := UnifiedStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnifiedStatus, raw)
	}
	return s, nil
}

func vocabulary(source BookingSource) (statusVocabulary, error) {
	v, ok := vocabularies[source]
	if !ok {
		return statusVocabulary{}, fmt.Errorf("%w: %q", ErrUnknownBookingSource, source)
	}
	return v, nil
}

// ToUnifiedStatus maps a stored status onto the console lifecycle.
func ToUnifiedStatus(source BookingSource, native string) (UnifiedStatus, error) {
	v, err := vocabulary(source)
	if err != nil {
		return "", err
	}
	unified, ok := v.read[native]
	if !ok {
		return "", fmt.Errorf("%w: %s status %q", ErrUnknownNativeStatus, source, native)
	}
	return unified, nil
}

// ToNativeStatus returns the single status written back for a unified value.
func ToNativeStatus(source BookingSource, unified UnifiedStatus) (string, error) {
	v, err := vocabulary(source)
	if err != nil {
		return "", err
	}
	native, ok := v.write[unified]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnifiedStatus, unified)
	}
	return native, nil
}

// NativeStatusesFor lists every stored value that reads as unified.
func NativeStatusesFor(source BookingSource, unified UnifiedStatus) []string {
	v, ok := vocabularies[source]
	if !ok {
		return nil
	}
	var out []string
	for _, native := range v.order {
		if v.read[native] == unified {
			out = append(out, native)
		}
	}
	return out
}

func NativeStatuses(source BookingSource) []string {
	v, ok := vocabularies[source]
	if !ok {
		return nil
	}
	return append([]string(nil), v.order...)
}
