package services

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"casaligan-admin-server/models"
)

// DefaultAnalyticsWindow is used when the caller gives no start date.
const DefaultAnalyticsWindow = 35 * 24 * time.Hour

// WeekOfMonth returns ceil((day + weekday of the 1st) / 7) with Sunday as 0.
// It is a week-of-month bucket, not an ISO week.
func WeekOfMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return (t.Day() + int(first.Weekday()) + 6) / 7
}

func weekLabel(week int) string {
	return fmt.Sprintf("W%d", week)
}

// WeeklySeries buckets the creation times of both sources into week-of-month
// labels. Buckets from different months share a label, matching the console
// chart. Either bound may be nil: end defaults to now and start to
// DefaultAnalyticsWindow before end.
func (s *BookingService) WeeklySeries(ctx context.Context, start, end *time.Time) (*models.BookingAnalytics, []SourceWarning, error) {
	to := s.now()
	if end != nil {
		to = *end
	}
	from := to.Add(-DefaultAnalyticsWindow)
	if start != nil {
		from = *start
	}
	if from.After(to) {
		return nil, nil, fmt.Errorf("%w: start_date is after end_date", ErrInvalidRange)
	}

	ctx, span := tracer.Start(ctx, "bookings.weekly_series")
	defer span.End()
	span.SetAttributes(
		attribute.String("bookings.from", from.Format(time.RFC3339)),
		attribute.String("bookings.to", to.Format(time.RFC3339)),
	)

	var (
		contractTimes, hireTimes []time.Time
		contractErr, hireErr     error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		contractTimes, contractErr = s.store.ContractCreatedAt(gctx, from, to)
		return nil
	})
	g.Go(func() error {
		hireTimes, hireErr = s.store.DirectHireCreatedAt(gctx, from, to)
		return nil
	})
	_ = g.Wait()

	var warnings []SourceWarning
	if contractErr != nil {
		log.Printf("❌ Failed to fetch contract timestamps: %v", contractErr)
		warnings = append(warnings, newWarning("contracts", contractErr))
		contractTimes = nil
	}
	if hireErr != nil {
		log.Printf("❌ Failed to fetch direct hire timestamps: %v", hireErr)
		warnings = append(warnings, newWarning("direct_hires", hireErr))
		hireTimes = nil
	}

	return s.bucketWeeks(contractTimes, hireTimes), warnings, nil
}

func (s *BookingService) bucketWeeks(series ...[]time.Time) *models.BookingAnalytics {
	counts := make(map[int]int)
	total := 0
	for _, times := range series {
		for _, t := range times {
			counts[WeekOfMonth(t.In(s.loc))]++
			total++
		}
	}

	weeks := make([]int, 0, len(counts))
	for w := range counts {
		weeks = append(weeks, w)
	}
	slices.Sort(weeks)

	result := &models.BookingAnalytics{
		WeeklyData: make([]models.WeeklyBookingCount, 0, len(weeks)),
		TotalCount: total,
	}
	for _, w := range weeks {
		result.WeeklyData = append(result.WeeklyData, models.WeeklyBookingCount{Week: weekLabel(w), Bookings: counts[w]})
	}
	return result
}
