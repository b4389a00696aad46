package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"casaligan-admin-server/models"
)

const (
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingDeleted       = "booking.deleted"
)

// BookingEvent is emitted after a successful write to either source.
type BookingEvent struct {
	EventID      string                 `json:"event_id"`
	Type         string                 `json:"type"`
	BookingID    models.UnifiedID       `json:"booking_id"`
	LegacyID     *uint64                `json:"legacy_id,omitempty"`
	Source       models.BookingSource   `json:"source"`
	NativeID     uint                   `json:"native_id"`
	Status       models.UnifiedStatus   `json:"status,omitempty"`
	NativeStatus string                 `json:"native_status,omitempty"`
	ActorAdminID uint                   `json:"actor_admin_id"`
	Booking      *models.UnifiedBooking `json:"booking,omitempty"`
	OccurredAt   time.Time              `json:"occurred_at"`
}

func NewBookingEvent(eventType string, id models.UnifiedID, actor Actor, at time.Time) BookingEvent {
	evt := BookingEvent{
		EventID:      uuid.NewString(),
		Type:         eventType,
		BookingID:    id,
		Source:       id.Source,
		NativeID:     id.NativeID,
		ActorAdminID: actor.AdminID,
		OccurredAt:   at.UTC(),
	}
	if legacy, ok := id.Legacy(); ok {
		evt.LegacyID = &legacy
	}
	return evt
}

type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, evt BookingEvent) error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishBookingEvent(context.Context, BookingEvent) error { return nil }

// MultiPublisher fans one event out to every publisher and joins the errors.
type MultiPublisher []EventPublisher

func (m MultiPublisher) PublishBookingEvent(ctx context.Context, evt BookingEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.PublishBookingEvent(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
