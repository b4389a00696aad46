package services

import (
	"context"
	"time"

	"casaligan-admin-server/models"
)

// BookingFilter narrows a source listing. Statuses are native values; an
// empty slice means every status.
type BookingFilter struct {
	Statuses    []string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type PageWindow struct {
	Limit  int
	Offset int
}

// IdentityLookup resolves foreign keys in batches. Ids that match no row are
// simply absent from the result.
type IdentityLookup interface {
	GetPostsByIDs(ctx context.Context, ids []uint) ([]models.ForumPost, error)
	GetWorkersByIDs(ctx context.Context, ids []uint) ([]models.Worker, error)
	GetEmployersByIDs(ctx context.Context, ids []uint) ([]models.Employer, error)
	GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error)
}

// BookingStore is the query surface over both booking tables.
type BookingStore interface {
	IdentityLookup

	// List returns rows newest first plus the filtered count ignoring window.
	ListContracts(ctx context.Context, filter BookingFilter, window PageWindow) ([]models.Contract, int64, error)
	ListDirectHires(ctx context.Context, filter BookingFilter, window PageWindow) ([]models.DirectHire, int64, error)

	GetContract(ctx context.Context, id uint) (*models.Contract, error)
	GetDirectHire(ctx context.Context, id uint) (*models.DirectHire, error)

	ContractCreatedAt(ctx context.Context, from, to time.Time) ([]time.Time, error)
	DirectHireCreatedAt(ctx context.Context, from, to time.Time) ([]time.Time, error)

	// Count with nil statuses counts every row.
	CountContracts(ctx context.Context, statuses []string) (int64, error)
	CountDirectHires(ctx context.Context, statuses []string) (int64, error)

	UpdateContractStatus(ctx context.Context, id uint, status string) (int64, error)
	UpdateDirectHireStatus(ctx context.Context, id uint, status string) (int64, error)
	DeleteContract(ctx context.Context, id uint) (int64, error)
	DeleteDirectHire(ctx context.Context, id uint) (int64, error)
}
