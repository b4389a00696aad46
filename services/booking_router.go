package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/attribute"

	"casaligan-admin-server/models"
)

// BookingRouter sends console writes to the one table a unified id names.
// Each call is a single statement with no retry.
type BookingRouter struct {
	store     BookingStore
	reader    *BookingService
	publisher EventPublisher
}

func NewBookingRouter(store BookingStore, reader *BookingService, publisher EventPublisher) *BookingRouter {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &BookingRouter{store: store, reader: reader, publisher: publisher}
}

// SetStatus writes the canonical native value for status and returns the
// booking as re-read afterwards. A nil row with a nil error means the write
// succeeded but the re-read did not.
func (r *BookingRouter) SetStatus(ctx context.Context, id models.UnifiedID, status string, actor Actor) (*models.UnifiedBooking, error) {
	unified, err := models.ParseUnifiedStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	native, err := models.ToNativeStatus(id.Source, unified)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "bookings.set_status")
	defer span.End()
	span.SetAttributes(
		attribute.String("bookings.id", id.String()),
		attribute.String("bookings.native_status", native),
	)

	var affected int64
	switch id.Source {
	case models.SourceContract:
		affected, err = r.store.UpdateContractStatus(ctx, id.NativeID, native)
	case models.SourceDirectHire:
		affected, err = r.store.UpdateDirectHireStatus(ctx, id.NativeID, native)
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownBookingSource, id.Source)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrBookingNotFound
	}
	log.Printf("✅ Admin %d set booking %s to %s (%s)", actor.AdminID, id, unified, native)

	row, _, err := r.reader.GetBooking(ctx, id)
	if err != nil {
		log.Printf("⚠️ Booking %s updated but could not be re-read: %v", id, err)
		row = nil
	}

	evt := NewBookingEvent(EventBookingStatusChanged, id, actor, r.reader.now())
	evt.Status = unified
	evt.NativeStatus = native
	evt.Booking = row
	r.publish(ctx, evt)

	return row, nil
}

// Delete removes the booking row permanently. The published event carries the
// last composed view of the row when one could be read.
func (r *BookingRouter) Delete(ctx context.Context, id models.UnifiedID, actor Actor) error {
	ctx, span := tracer.Start(ctx, "bookings.delete")
	defer span.End()
	span.SetAttributes(attribute.String("bookings.id", id.String()))

	snapshot, _, err := r.reader.GetBooking(ctx, id)
	if errors.Is(err, ErrBookingNotFound) {
		return err
	}
	if err != nil {
		log.Printf("⚠️ Could not snapshot booking %s before delete: %v", id, err)
		snapshot = nil
	}

	var affected int64
	switch id.Source {
	case models.SourceContract:
		affected, err = r.store.DeleteContract(ctx, id.NativeID)
	case models.SourceDirectHire:
		affected, err = r.store.DeleteDirectHire(ctx, id.NativeID)
	default:
		return fmt.Errorf("%w: %s", models.ErrUnknownBookingSource, id.Source)
	}
	if err != nil {
		span.RecordError(err)
		return err
	}
	if affected == 0 {
		return ErrBookingNotFound
	}
	log.Printf("🗑️ Admin %d deleted booking %s", actor.AdminID, id)

	evt := NewBookingEvent(EventBookingDeleted, id, actor, r.reader.now())
	if snapshot != nil {
		evt.Status = snapshot.Status
		evt.NativeStatus = snapshot.NativeStatus
		evt.Booking = snapshot
	}
	r.publish(ctx, evt)
	return nil
}

func (r *BookingRouter) publish(ctx context.Context, evt BookingEvent) {
	if err := r.publisher.PublishBookingEvent(ctx, evt); err != nil {
		log.Printf("⚠️ Failed to publish %s for booking %s: %v", evt.Type, evt.BookingID, err)
	}
}
