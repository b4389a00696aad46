package services

import (
	"context"
	"errors"
	"testing"

	"casaligan-admin-server/models"
)

func TestResolveBatchesOneLookupPerEntityType(t *testing.T) {
	store := seededStore()
	var contracts []models.Contract
	for i := 0; i < 25; i++ {
		contracts = append(contracts, models.Contract{ContractID: uint(i + 1), PostID: uintPtr(70), WorkerID: uintPtr(1), EmployerID: uintPtr(2), Status: "pending"})
	}
	hires := []models.DirectHire{{HireID: 1, WorkerID: uintPtr(1), EmployerID: uintPtr(2)}}

	var workerIDs []uint
	store.getWorkersFn = func(ids []uint) ([]models.Worker, error) {
		workerIDs = ids
		return []models.Worker{{WorkerID: 1, UserID: 100}}, nil
	}

	maps, warnings := NewEntityResolver(store).Resolve(context.Background(), contracts, hires)
	if len(warnings) != 0 {
		t.Fatalf("warnings=%v", warnings)
	}
	for _, name := range []string{"GetPostsByIDs", "GetWorkersByIDs", "GetEmployersByIDs", "GetUsersByIDs"} {
		if got := store.count(name); got != 1 {
			t.Fatalf("%s called %d times, want 1", name, got)
		}
	}
	if len(workerIDs) != 1 || workerIDs[0] != 1 {
		t.Fatalf("worker ids=%v, want [1]", workerIDs)
	}
	if _, ok := maps.Users[100]; !ok {
		t.Fatalf("worker user 100 not resolved")
	}
	if _, ok := maps.Users[200]; !ok {
		t.Fatalf("employer user 200 not resolved")
	}
}

func TestResolveUsersUnionInOneCall(t *testing.T) {
	store := seededStore()
	store.workers = []models.Worker{{WorkerID: 1, UserID: 100}, {WorkerID: 3, UserID: 300}}
	store.employers = []models.Employer{{EmployerID: 2, UserID: 100}}

	var userIDs []uint
	store.getUsersFn = func(ids []uint) ([]models.User, error) {
		userIDs = ids
		return nil, nil
	}
	hires := []models.DirectHire{
		{HireID: 1, WorkerID: uintPtr(1), EmployerID: uintPtr(2)},
		{HireID: 2, WorkerID: uintPtr(3), EmployerID: uintPtr(2)},
	}
	NewEntityResolver(store).Resolve(context.Background(), nil, hires)

	if store.count("GetUsersByIDs") != 1 {
		t.Fatalf("GetUsersByIDs called %d times", store.count("GetUsersByIDs"))
	}
	if len(userIDs) != 2 || userIDs[0] != 100 || userIDs[1] != 300 {
		t.Fatalf("user ids=%v, want [100 300]", userIDs)
	}
}

func TestResolveSkipsEmptyLookups(t *testing.T) {
	store := seededStore()
	hires := []models.DirectHire{{HireID: 1}}
	maps, warnings := NewEntityResolver(store).Resolve(context.Background(), nil, hires)
	if len(warnings) != 0 {
		t.Fatalf("warnings=%v", warnings)
	}
	for _, name := range []string{"GetPostsByIDs", "GetWorkersByIDs", "GetEmployersByIDs", "GetUsersByIDs"} {
		if got := store.count(name); got != 0 {
			t.Fatalf("%s called %d times, want 0", name, got)
		}
	}
	if maps == nil || len(maps.Users) != 0 {
		t.Fatalf("maps=%+v", maps)
	}
}

func TestResolveDegradesOnLookupFailure(t *testing.T) {
	store := seededStore()
	store.getWorkersFn = func([]uint) ([]models.Worker, error) {
		return nil, errors.New("workers table unavailable")
	}
	maps, warnings := NewEntityResolver(store).Resolve(context.Background(), store.contracts, nil)
	if len(warnings) != 1 || warnings[0].Source != "workers" {
		t.Fatalf("warnings=%+v, want one workers warning", warnings)
	}
	if len(maps.Workers) != 0 {
		t.Fatalf("workers map=%v, want empty", maps.Workers)
	}
	if _, ok := maps.Users[200]; !ok {
		t.Fatalf("employer user still expected to resolve")
	}
	if _, ok := maps.Posts[70]; !ok {
		t.Fatalf("post 70 still expected to resolve")
	}
}

func TestResolveUsersFailure(t *testing.T) {
	store := seededStore()
	store.getUsersFn = func([]uint) ([]models.User, error) {
		return nil, errors.New("boom")
	}
	maps, warnings := NewEntityResolver(store).Resolve(context.Background(), store.contracts, nil)
	if len(warnings) != 1 || warnings[0].Source != "users" {
		t.Fatalf("warnings=%+v", warnings)
	}
	row, err := ComposeContract(store.contracts[0], maps)
	if err != nil {
		t.Fatalf("ComposeContract: %v", err)
	}
	if row.Worker != nil || row.Employer != nil {
		t.Fatalf("persons should be nil when users fail, got %+v %+v", row.Worker, row.Employer)
	}
}
