package models

import "time"

// PersonSummary is the contact projection of a resolved worker or employer.
type PersonSummary struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// UnifiedBooking is the read-time row the console sees for either source.
// It is never persisted.
type UnifiedBooking struct {
	ID            UnifiedID      `json:"id"`
	LegacyID      *uint64        `json:"legacy_id,omitempty"`
	SourceKind    BookingSource  `json:"source_kind"`
	Status        UnifiedStatus  `json:"status"`
	NativeStatus  string         `json:"native_status"`
	CreatedAt     time.Time      `json:"created_at"`
	ScheduledDate *time.Time     `json:"scheduled_date"`
	PriceAmount   float64        `json:"price_amount"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Worker        *PersonSummary `json:"worker"`
	Employer      *PersonSummary `json:"employer"`
}

type BookingStats struct {
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	Total     int64 `json:"total"`
}

// Add counts n rows under the given bucket. Total is kept separately.
func (s *BookingStats) Add(status UnifiedStatus, n int64) {
	switch status {
	case StatusPending:
		s.Pending += n
	case StatusConfirmed:
		s.Confirmed += n
	case StatusCompleted:
		s.Completed += n
	case StatusCancelled:
		s.Cancelled += n
	}
}

type WeeklyBookingCount struct {
	Week     string `json:"week"`
	Bookings int    `json:"bookings"`
}

type BookingAnalytics struct {
	WeeklyData []WeeklyBookingCount `json:"weekly_data"`
	TotalCount int                  `json:"total_count"`
}
