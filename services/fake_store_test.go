package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"casaligan-admin-server/models"
)

// fakeStore implements BookingStore. Unset funcs fall back to the in-memory
// rows, and every call is counted by method name.
type fakeStore struct {
	mu    sync.Mutex
	calls map[string]int

	contracts []models.Contract
	hires     []models.DirectHire
	posts     []models.ForumPost
	workers   []models.Worker
	employers []models.Employer
	users     []models.User

	listContractsFn   func(BookingFilter, PageWindow) ([]models.Contract, int64, error)
	listDirectHiresFn func(BookingFilter, PageWindow) ([]models.DirectHire, int64, error)
	getPostsFn        func([]uint) ([]models.ForumPost, error)
	getWorkersFn      func([]uint) ([]models.Worker, error)
	getEmployersFn    func([]uint) ([]models.Employer, error)
	getUsersFn        func([]uint) ([]models.User, error)
	countContractsFn  func([]string) (int64, error)
	countHiresFn      func([]string) (int64, error)
	contractTimesFn   func(time.Time, time.Time) ([]time.Time, error)
	hireTimesFn       func(time.Time, time.Time) ([]time.Time, error)
	updateContractFn  func(uint, string) (int64, error)
	updateHireFn      func(uint, string) (int64, error)
	deleteContractFn  func(uint) (int64, error)
	deleteHireFn      func(uint) (int64, error)
}

func (f *fakeStore) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeStore) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func matchesFilter(status string, createdAt time.Time, filter BookingFilter) bool {
	if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, status) {
		return false
	}
	if filter.CreatedFrom != nil && createdAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && createdAt.After(*filter.CreatedTo) {
		return false
	}
	return true
}

func window[T any](rows []T, w PageWindow) []T {
	start := min(w.Offset, len(rows))
	end := len(rows)
	if w.Limit > 0 {
		end = min(start+w.Limit, len(rows))
	}
	return rows[start:end]
}

func (f *fakeStore) ListContracts(_ context.Context, filter BookingFilter, w PageWindow) ([]models.Contract, int64, error) {
	f.record("ListContracts")
	if f.listContractsFn != nil {
		return f.listContractsFn(filter, w)
	}
	var out []models.Contract
	for _, c := range f.contracts {
		if matchesFilter(c.Status, c.CreatedAt, filter) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Contract) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return window(out, w), int64(len(out)), nil
}

func (f *fakeStore) ListDirectHires(_ context.Context, filter BookingFilter, w PageWindow) ([]models.DirectHire, int64, error) {
	f.record("ListDirectHires")
	if f.listDirectHiresFn != nil {
		return f.listDirectHiresFn(filter, w)
	}
	var out []models.DirectHire
	for _, h := range f.hires {
		if matchesFilter(h.Status, h.CreatedAt, filter) {
			out = append(out, h)
		}
	}
	slices.SortStableFunc(out, func(a, b models.DirectHire) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return window(out, w), int64(len(out)), nil
}

func (f *fakeStore) GetContract(_ context.Context, id uint) (*models.Contract, error) {
	f.record("GetContract")
	for _, c := range f.contracts {
		if c.ContractID == id {
			return &c, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeStore) GetDirectHire(_ context.Context, id uint) (*models.DirectHire, error) {
	f.record("GetDirectHire")
	for _, h := range f.hires {
		if h.HireID == id {
			return &h, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeStore) ContractCreatedAt(_ context.Context, from, to time.Time) ([]time.Time, error) {
	f.record("ContractCreatedAt")
	if f.contractTimesFn != nil {
		return f.contractTimesFn(from, to)
	}
	var out []time.Time
	for _, c := range f.contracts {
		if !c.CreatedAt.Before(from) && !c.CreatedAt.After(to) {
			out = append(out, c.CreatedAt)
		}
	}
	return out, nil
}

func (f *fakeStore) DirectHireCreatedAt(_ context.Context, from, to time.Time) ([]time.Time, error) {
	f.record("DirectHireCreatedAt")
	if f.hireTimesFn != nil {
		return f.hireTimesFn(from, to)
	}
	var out []time.Time
	for _, h := range f.hires {
		if !h.CreatedAt.Before(from) && !h.CreatedAt.After(to) {
			out = append(out, h.CreatedAt)
		}
	}
	return out, nil
}

func (f *fakeStore) CountContracts(_ context.Context, statuses []string) (int64, error) {
	f.record("CountContracts")
	if f.countContractsFn != nil {
		return f.countContractsFn(statuses)
	}
	var n int64
	for _, c := range f.contracts {
		if len(statuses) == 0 || slices.Contains(statuses, c.Status) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountDirectHires(_ context.Context, statuses []string) (int64, error) {
	f.record("CountDirectHires")
	if f.countHiresFn != nil {
		return f.countHiresFn(statuses)
	}
	var n int64
	for _, h := range f.hires {
		if len(statuses) == 0 || slices.Contains(statuses, h.Status) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) UpdateContractStatus(_ context.Context, id uint, status string) (int64, error) {
	f.record("UpdateContractStatus")
	if f.updateContractFn != nil {
		return f.updateContractFn(id, status)
	}
	for i := range f.contracts {
		if f.contracts[i].ContractID == id {
			f.contracts[i].Status = status
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) UpdateDirectHireStatus(_ context.Context, id uint, status string) (int64, error) {
	f.record("UpdateDirectHireStatus")
	if f.updateHireFn != nil {
		return f.updateHireFn(id, status)
	}
	for i := range f.hires {
		if f.hires[i].HireID == id {
			f.hires[i].Status = status
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) DeleteContract(_ context.Context, id uint) (int64, error) {
	f.record("DeleteContract")
	if f.deleteContractFn != nil {
		return f.deleteContractFn(id)
	}
	for i := range f.contracts {
		if f.contracts[i].ContractID == id {
			f.contracts = slices.Delete(f.contracts, i, i+1)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) DeleteDirectHire(_ context.Context, id uint) (int64, error) {
	f.record("DeleteDirectHire")
	if f.deleteHireFn != nil {
		return f.deleteHireFn(id)
	}
	for i := range f.hires {
		if f.hires[i].HireID == id {
			f.hires = slices.Delete(f.hires, i, i+1)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) GetPostsByIDs(_ context.Context, ids []uint) ([]models.ForumPost, error) {
	f.record("GetPostsByIDs")
	if f.getPostsFn != nil {
		return f.getPostsFn(ids)
	}
	var out []models.ForumPost
	for _, p := range f.posts {
		if slices.Contains(ids, p.PostID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetWorkersByIDs(_ context.Context, ids []uint) ([]models.Worker, error) {
	f.record("GetWorkersByIDs")
	if f.getWorkersFn != nil {
		return f.getWorkersFn(ids)
	}
	var out []models.Worker
	for _, w := range f.workers {
		if slices.Contains(ids, w.WorkerID) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeStore) GetEmployersByIDs(_ context.Context, ids []uint) ([]models.Employer, error) {
	f.record("GetEmployersByIDs")
	if f.getEmployersFn != nil {
		return f.getEmployersFn(ids)
	}
	var out []models.Employer
	for _, e := range f.employers {
		if slices.Contains(ids, e.EmployerID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) GetUsersByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	f.record("GetUsersByIDs")
	if f.getUsersFn != nil {
		return f.getUsersFn(ids)
	}
	var out []models.User
	for _, u := range f.users {
		if slices.Contains(ids, u.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []BookingEvent
	err    error
}

func (p *recordingPublisher) PublishBookingEvent(_ context.Context, evt BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func ptrTime(v time.Time) *time.Time { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// seededStore holds two contracts and two direct hires with full identity rows.
func seededStore() *fakeStore {
	return &fakeStore{
		contracts: []models.Contract{
			{ContractID: 7, PostID: uintPtr(70), WorkerID: uintPtr(1), EmployerID: uintPtr(2), Status: "active", CreatedAt: day("2024-01-05")},
			{ContractID: 8, PostID: uintPtr(80), WorkerID: uintPtr(1), EmployerID: uintPtr(2), Status: "completed", CreatedAt: day("2024-01-03")},
		},
		hires: []models.DirectHire{
			{HireID: 42, WorkerID: uintPtr(1), EmployerID: uintPtr(2), Status: "paid", TotalAmount: 800, CreatedAt: day("2024-01-04")},
			{HireID: 43, WorkerID: uintPtr(1), EmployerID: uintPtr(2), Status: "rejected", TotalAmount: 300, CreatedAt: day("2024-01-02")},
		},
		posts: []models.ForumPost{
			{PostID: 70, Title: "Deep Clean", Salary: 500, Location: "Quezon City", StartDate: strPtr("2024-01-10")},
			{PostID: 80, Title: "Laundry", Salary: 250, Location: "Makati"},
		},
		workers:   []models.Worker{{WorkerID: 1, UserID: 100}},
		employers: []models.Employer{{EmployerID: 2, UserID: 200}},
		users: []models.User{
			{ID: 100, FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com", PhoneNumber: "0917"},
			{ID: 200, FirstName: "Ben", LastName: "Cruz", Email: "ben@example.com", PhoneNumber: "0918"},
		},
	}
}
