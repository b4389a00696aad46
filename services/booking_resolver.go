package services

import (
	"context"
	"log"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"casaligan-admin-server/models"
)

var tracer = otel.Tracer("casaligan-admin-server/services")

// EntityMaps holds the identity rows referenced by one batch of bookings.
// A missing key means the reference did not resolve.
type EntityMaps struct {
	Posts     map[uint]models.ForumPost
	Workers   map[uint]models.Worker
	Employers map[uint]models.Employer
	Users     map[uint]models.User
}

func NewEntityMaps() *EntityMaps {
	return &EntityMaps{
		Posts:     make(map[uint]models.ForumPost),
		Workers:   make(map[uint]models.Worker),
		Employers: make(map[uint]models.Employer),
		Users:     make(map[uint]models.User),
	}
}

type idSet map[uint]struct{}

func (s idSet) add(id *uint) {
	if id != nil && *id != 0 {
		s[*id] = struct{}{}
	}
}

func (s idSet) list() []uint {
	ids := make([]uint, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// EntityResolver batch-loads the workers, employers, posts and users a set of
// bookings points at.
type EntityResolver struct {
	lookup IdentityLookup
}

func NewEntityResolver(lookup IdentityLookup) *EntityResolver {
	return &EntityResolver{lookup: lookup}
}

// Resolve issues at most one lookup per entity type. Posts, workers and
// employers load in parallel; users load afterwards from the union of user
// ids those rows reference. Lookup failures leave the map empty and come back
// as warnings.
func (r *EntityResolver) Resolve(ctx context.Context, contracts []models.Contract, hires []models.DirectHire) (*EntityMaps, []SourceWarning) {
	ctx, span := tracer.Start(ctx, "bookings.resolve_entities")
	defer span.End()

	maps := NewEntityMaps()
	postIDs, workerIDs, employerIDs := idSet{}, idSet{}, idSet{}
	for i := range contracts {
		postIDs.add(contracts[i].PostID)
		workerIDs.add(contracts[i].WorkerID)
		employerIDs.add(contracts[i].EmployerID)
	}
	for i := range hires {
		workerIDs.add(hires[i].WorkerID)
		employerIDs.add(hires[i].EmployerID)
	}
	span.SetAttributes(
		attribute.Int("bookings.post_ids", len(postIDs)),
		attribute.Int("bookings.worker_ids", len(workerIDs)),
		attribute.Int("bookings.employer_ids", len(employerIDs)),
	)

	// Each goroutine owns one map and one slot in errs.
	var errs [3]error
	g, gctx := errgroup.WithContext(ctx)
	if len(postIDs) > 0 {
		g.Go(func() error {
			posts, err := r.lookup.GetPostsByIDs(gctx, postIDs.list())
			if err != nil {
				errs[0] = err
				return nil
			}
			for _, p := range posts {
				maps.Posts[p.PostID] = p
			}
			return nil
		})
	}
	if len(workerIDs) > 0 {
		g.Go(func() error {
			workers, err := r.lookup.GetWorkersByIDs(gctx, workerIDs.list())
			if err != nil {
				errs[1] = err
				return nil
			}
			for _, w := range workers {
				maps.Workers[w.WorkerID] = w
			}
			return nil
		})
	}
	if len(employerIDs) > 0 {
		g.Go(func() error {
			employers, err := r.lookup.GetEmployersByIDs(gctx, employerIDs.list())
			if err != nil {
				errs[2] = err
				return nil
			}
			for _, e := range employers {
				maps.Employers[e.EmployerID] = e
			}
			return nil
		})
	}
	_ = g.Wait()

	var warnings []SourceWarning
	for i, source := range []string{"posts", "workers", "employers"} {
		if errs[i] != nil {
			log.Printf("⚠️ Failed to resolve %s for bookings: %v", source, errs[i])
			warnings = append(warnings, newWarning(source, errs[i]))
		}
	}

	userIDs := idSet{}
	for _, w := range maps.Workers {
		userIDs.add(&w.UserID)
	}
	for _, e := range maps.Employers {
		userIDs.add(&e.UserID)
	}
	if len(userIDs) == 0 {
		return maps, warnings
	}

	users, err := r.lookup.GetUsersByIDs(ctx, userIDs.list())
	if err != nil {
		log.Printf("⚠️ Failed to resolve users for bookings: %v", err)
		return maps, append(warnings, newWarning("users", err))
	}
	for _, u := range users {
		maps.Users[u.ID] = u
	}
	return maps, warnings
}
