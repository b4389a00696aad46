package routes

import (
	"context"
	"slices"
	"sync"
	"time"

	"casaligan-admin-server/models"
	"casaligan-admin-server/services"
)

// memStore is an in-memory services.BookingStore.
type memStore struct {
	mu        sync.Mutex
	contracts []models.Contract
	hires     []models.DirectHire
	posts     []models.ForumPost
	workers   []models.Worker
	employers []models.Employer
	users     []models.User

	hireErr error
}

func inFilter(status string, createdAt time.Time, f services.BookingFilter) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, status) {
		return false
	}
	if f.CreatedFrom != nil && createdAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && createdAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

func page[T any](rows []T, w services.PageWindow) []T {
	start := min(w.Offset, len(rows))
	end := len(rows)
	if w.Limit > 0 {
		end = min(start+w.Limit, len(rows))
	}
	return rows[start:end]
}

func (m *memStore) ListContracts(_ context.Context, f services.BookingFilter, w services.PageWindow) ([]models.Contract, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Contract
	for _, c := range m.contracts {
		if inFilter(c.Status, c.CreatedAt, f) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.Contract) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return page(out, w), int64(len(out)), nil
}

func (m *memStore) ListDirectHires(_ context.Context, f services.BookingFilter, w services.PageWindow) ([]models.DirectHire, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hireErr != nil {
		return nil, 0, m.hireErr
	}
	var out []models.DirectHire
	for _, h := range m.hires {
		if inFilter(h.Status, h.CreatedAt, f) {
			out = append(out, h)
		}
	}
	slices.SortFunc(out, func(a, b models.DirectHire) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return page(out, w), int64(len(out)), nil
}

func (m *memStore) GetContract(_ context.Context, id uint) (*models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contracts {
		if c.ContractID == id {
			return &c, nil
		}
	}
	return nil, services.ErrBookingNotFound
}

func (m *memStore) GetDirectHire(_ context.Context, id uint) (*models.DirectHire, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.hires {
		if h.HireID == id {
			return &h, nil
		}
	}
	return nil, services.ErrBookingNotFound
}

func (m *memStore) ContractCreatedAt(_ context.Context, from, to time.Time) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []time.Time
	for _, c := range m.contracts {
		if !c.CreatedAt.Before(from) && !c.CreatedAt.After(to) {
			out = append(out, c.CreatedAt)
		}
	}
	return out, nil
}

func (m *memStore) DirectHireCreatedAt(_ context.Context, from, to time.Time) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []time.Time
	for _, h := range m.hires {
		if !h.CreatedAt.Before(from) && !h.CreatedAt.After(to) {
			out = append(out, h.CreatedAt)
		}
	}
	return out, nil
}

func (m *memStore) CountContracts(_ context.Context, statuses []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.contracts {
		if len(statuses) == 0 || slices.Contains(statuses, c.Status) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountDirectHires(_ context.Context, statuses []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, h := range m.hires {
		if len(statuses) == 0 || slices.Contains(statuses, h.Status) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) UpdateContractStatus(_ context.Context, id uint, status string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.contracts {
		if m.contracts[i].ContractID == id {
			m.contracts[i].Status = status
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memStore) UpdateDirectHireStatus(_ context.Context, id uint, status string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.hires {
		if m.hires[i].HireID == id {
			m.hires[i].Status = status
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memStore) DeleteContract(_ context.Context, id uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.contracts)
	m.contracts = slices.DeleteFunc(m.contracts, func(c models.Contract) bool { return c.ContractID == id })
	return int64(before - len(m.contracts)), nil
}

func (m *memStore) DeleteDirectHire(_ context.Context, id uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.hires)
	m.hires = slices.DeleteFunc(m.hires, func(h models.DirectHire) bool { return h.HireID == id })
	return int64(before - len(m.hires)), nil
}

func (m *memStore) GetPostsByIDs(_ context.Context, ids []uint) ([]models.ForumPost, error) {
	var out []models.ForumPost
	for _, p := range m.posts {
		if slices.Contains(ids, p.PostID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) GetWorkersByIDs(_ context.Context, ids []uint) ([]models.Worker, error) {
	var out []models.Worker
	for _, w := range m.workers {
		if slices.Contains(ids, w.WorkerID) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memStore) GetEmployersByIDs(_ context.Context, ids []uint) ([]models.Employer, error) {
	var out []models.Employer
	for _, e := range m.employers {
		if slices.Contains(ids, e.EmployerID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) GetUsersByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		if slices.Contains(ids, u.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func uintPtr(v uint) *uint { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seededMemStore() *memStore {
	start := "2024-01-10"
	return &memStore{
		contracts: []models.Contract{
			{ContractID: 7, PostID: uintPtr(70), WorkerID: uintPtr(1), EmployerID: uintPtr(2), Status: "active", CreatedAt: day("2024-01-05")},
			{ContractID: 8, PostID: uintPtr(80), WorkerID: uintPtr(1), EmployerID: uintPtr(2), Status: "completed", CreatedAt: day("2024-01-03")},
		},
		hires: []models.DirectHire{
			{HireID: 42, WorkerID: uintPtr(1), EmployerID: uintPtr(2), Status: "paid", TotalAmount: 800, CreatedAt: day("2024-01-04")},
			{HireID: 43, WorkerID: uintPtr(1), EmployerID: uintPtr(2), Status: "rejected", TotalAmount: 300, CreatedAt: day("2024-01-02")},
		},
		posts: []models.ForumPost{
			{PostID: 70, Title: "Deep Clean", Salary: 500, Location: "Quezon City", StartDate: &start},
			{PostID: 80, Title: "Laundry", Salary: 250, Location: "Makati"},
		},
		workers:   []models.Worker{{WorkerID: 1, UserID: 100}},
		employers: []models.Employer{{EmployerID: 2, UserID: 200}},
		users: []models.User{
			{ID: 100, FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com"},
			{ID: 200, FirstName: "Ben", LastName: "Cruz", Email: "ben@example.com"},
		},
	}
}
