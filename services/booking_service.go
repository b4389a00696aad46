package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"casaligan-admin-server/models"
)

var ErrInvalidPage = errors.New("invalid page request")

type BookingServiceOptions struct {
	// StrictStatus fails reads that meet an unmapped native status.
	StrictStatus bool
	// MaxWindow caps offset+limit. Zero disables the cap.
	MaxWindow int
	// Location is the console timezone used for week bucketing.
	Location *time.Location
	Now      func() time.Time
}

// BookingService serves the unified read model over both booking tables.
type BookingService struct {
	store     BookingStore
	resolver  *EntityResolver
	strict    bool
	maxWindow int
	loc       *time.Location
	now       func() time.Time
}

func NewBookingService(store BookingStore, opts BookingServiceOptions) *BookingService {
	s := &BookingService{
		store:     store,
		resolver:  NewEntityResolver(store),
		strict:    opts.StrictStatus,
		maxWindow: opts.MaxWindow,
		loc:       opts.Location,
		now:       opts.Now,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type BookingQuery struct {
	Limit       int
	Offset      int
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// sourceRow is one primary row awaiting the merge.
type sourceRow struct {
	id        models.UnifiedID
	createdAt time.Time
	contract  *models.Contract
	hire      *models.DirectHire
}

func compareSourceRows(a, b sourceRow) int {
	// newest first
	if c := b.createdAt.Compare(a.createdAt); c != 0 {
		return c
	}
	if a.id.Source != b.id.Source {
		if a.id.Source == models.SourceContract {
			return -1
		}
		return 1
	}
	return cmp.Compare(b.id.NativeID, a.id.NativeID)
}

func (q BookingQuery) filterFor(source models.BookingSource, status models.UnifiedStatus) BookingFilter {
	f := BookingFilter{CreatedFrom: q.CreatedFrom, CreatedTo: q.CreatedTo}
	if status != "" {
		f.Statuses = models.NativeStatusesFor(source, status)
	}
	return f
}

func (s *BookingService) validate(q BookingQuery) (models.UnifiedStatus, error) {
	if q.Limit <= 0 || q.Offset < 0 {
		return "", fmt.Errorf("%w: limit must be positive and offset non-negative", ErrInvalidPage)
	}
	// Compared as offset > cap-limit so a huge offset cannot wrap the sum.
	window := math.MaxInt
	if s.maxWindow > 0 {
		window = s.maxWindow
	}
	if q.Limit > window || q.Offset > window-q.Limit {
		return "", fmt.Errorf("%w: offset+limit exceeds %d", ErrWindowTooLarge, window)
	}
	if q.CreatedFrom != nil && q.CreatedTo != nil && q.CreatedFrom.After(*q.CreatedTo) {
		return "", fmt.Errorf("%w: start_date is after end_date", ErrInvalidRange)
	}
	if q.Status == "" {
		return "", nil
	}
	status, err := models.ParseUnifiedStatus(q.Status)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, q.Status)
	}
	return status, nil
}

// ListBookings returns one page of the merged, newest-first listing. Each
// source is read up to offset+limit rows, the two are merged, and the page is
// sliced from the merged order. A failing source is treated as empty and
// reported in the page warnings.
func (s *BookingService) ListBookings(ctx context.Context, q BookingQuery) (*BookingPage, error) {
	status, err := s.validate(q)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "bookings.list")
	defer span.End()
	span.SetAttributes(
		attribute.Int("bookings.limit", q.Limit),
		attribute.Int("bookings.offset", q.Offset),
		attribute.String("bookings.status", q.Status),
	)

	window := PageWindow{Limit: q.Offset + q.Limit}
	var (
		contracts     []models.Contract
		hires         []models.DirectHire
		contractCount int64
		hireCount     int64
		contractErr   error
		hireErr       error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		contracts, contractCount, contractErr = s.store.ListContracts(gctx, q.filterFor(models.SourceContract, status), window)
		return nil
	})
	g.Go(func() error {
		hires, hireCount, hireErr = s.store.ListDirectHires(gctx, q.filterFor(models.SourceDirectHire, status), window)
		return nil
	})
	_ = g.Wait()

	page := &BookingPage{}
	if contractErr != nil {
		log.Printf("❌ Failed to fetch contracts: %v", contractErr)
		page.Warnings = append(page.Warnings, newWarning("contracts", contractErr))
		contracts, contractCount = nil, 0
	}
	if hireErr != nil {
		log.Printf("❌ Failed to fetch direct hires: %v", hireErr)
		page.Warnings = append(page.Warnings, newWarning("direct_hires", hireErr))
		hires, hireCount = nil, 0
	}
	page.Total = contractCount + hireCount

	merged := make([]sourceRow, 0, len(contracts)+len(hires))
	for i := range contracts {
		c := &contracts[i]
		merged = append(merged, sourceRow{id: models.EncodeBookingID(models.SourceContract, c.ContractID), createdAt: c.CreatedAt, contract: c})
	}
	for i := range hires {
		h := &hires[i]
		merged = append(merged, sourceRow{id: models.EncodeBookingID(models.SourceDirectHire, h.HireID), createdAt: h.CreatedAt, hire: h})
	}
	slices.SortStableFunc(merged, compareSourceRows)

	start := min(q.Offset, len(merged))
	end := min(q.Offset+q.Limit, len(merged))
	merged = merged[start:end]

	var pageContracts []models.Contract
	var pageHires []models.DirectHire
	for _, r := range merged {
		if r.contract != nil {
			pageContracts = append(pageContracts, *r.contract)
		} else {
			pageHires = append(pageHires, *r.hire)
		}
	}

	maps, warnings := s.resolver.Resolve(ctx, pageContracts, pageHires)
	page.Warnings = append(page.Warnings, warnings...)

	page.Rows = make([]models.UnifiedBooking, 0, len(merged))
	for _, r := range merged {
		var row models.UnifiedBooking
		var err error
		if r.contract != nil {
			row, err = ComposeContract(*r.contract, maps)
		} else {
			row, err = ComposeDirectHire(*r.hire, maps)
		}
		if err := s.statusPolicy(row, err); err != nil {
			return nil, err
		}
		page.Rows = append(page.Rows, row)
	}
	return page, nil
}

// GetBooking reads and composes a single booking from its source table.
func (s *BookingService) GetBooking(ctx context.Context, id models.UnifiedID) (*models.UnifiedBooking, []SourceWarning, error) {
	ctx, span := tracer.Start(ctx, "bookings.get")
	defer span.End()
	span.SetAttributes(attribute.String("bookings.id", id.String()))

	var (
		row      models.UnifiedBooking
		warnings []SourceWarning
		maps     *EntityMaps
		err      error
	)
	switch id.Source {
	case models.SourceContract:
		c, gerr := s.store.GetContract(ctx, id.NativeID)
		if gerr != nil {
			return nil, nil, gerr
		}
		maps, warnings = s.resolver.Resolve(ctx, []models.Contract{*c}, nil)
		row, err = ComposeContract(*c, maps)
	case models.SourceDirectHire:
		h, gerr := s.store.GetDirectHire(ctx, id.NativeID)
		if gerr != nil {
			return nil, nil, gerr
		}
		maps, warnings = s.resolver.Resolve(ctx, nil, []models.DirectHire{*h})
		row, err = ComposeDirectHire(*h, maps)
	default:
		return nil, nil, fmt.Errorf("%w: %s", models.ErrUnknownBookingSource, id.Source)
	}

	if err := s.statusPolicy(row, err); err != nil {
		return nil, warnings, err
	}
	return &row, warnings, nil
}

// statusPolicy decides what an unmapped native status does to the request.
func (s *BookingService) statusPolicy(row models.UnifiedBooking, err error) error {
	if err == nil {
		return nil
	}
	if s.strict {
		return err
	}
	log.Printf("🚨 ALARM: %v; booking %s shown as %s", err, row.ID, row.Status)
	return nil
}

// StatusCounts runs one count per native status per source and folds them
// into the unified buckets. Total is the unfiltered row count of both tables.
func (s *BookingService) StatusCounts(ctx context.Context) (*models.BookingStats, []SourceWarning, error) {
	ctx, span := tracer.Start(ctx, "bookings.status_counts")
	defer span.End()

	type countFn func(context.Context, []string) (int64, error)
	sources := []struct {
		source models.BookingSource
		name   string
		count  countFn
	}{
		{models.SourceContract, "contracts", s.store.CountContracts},
		{models.SourceDirectHire, "direct_hires", s.store.CountDirectHires},
	}

	var (
		mu       sync.Mutex
		stats    models.BookingStats
		bucketed int64
		warnings []SourceWarning
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(6)
	for _, src := range sources {
		src := src // per-iteration copy: go.mod targets go 1.21 loop semantics
		for _, native := range models.NativeStatuses(src.source) {
			native := native
			unified, _ := models.ToUnifiedStatus(src.source, native)
			g.Go(func() error {
				n, err := src.count(gctx, []string{native})
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					warnings = append(warnings, newWarning(src.name, fmt.Errorf("count %s: %w", native, err)))
					return nil
				}
				stats.Add(unified, n)
				bucketed += n
				return nil
			})
		}
		g.Go(func() error {
			n, err := src.count(gctx, nil)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				warnings = append(warnings, newWarning(src.name, fmt.Errorf("count total: %w", err)))
				return nil
			}
			stats.Total += n
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	for _, w := range warnings {
		log.Printf("⚠️ Booking stats degraded (%s): %s", w.Source, w.Message)
	}
	if len(warnings) == 0 && stats.Total > bucketed {
		log.Printf("🚨 ALARM: %d bookings carry a status outside the known vocabulary", stats.Total-bucketed)
	}
	return &stats, warnings, nil
}
