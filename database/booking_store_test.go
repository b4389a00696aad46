package database

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"casaligan-admin-server/models"
	"casaligan-admin-server/services"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	db, err := Open(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	for _, table := range []string{"contracts", "direct_hires", "forumposts", "workers", "employers", "admins", "users"} {
		if err := db.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	return db
}

func uintPtr(v uint) *uint { return &v }

func TestBookingStoreIntegration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewBookingStore(db)

	base := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	users := []models.User{
		{ID: 1, Email: "ana@example.com", PasswordHash: "x", FirstName: "Ana", LastName: "Reyes", Status: models.UserStatusActive},
		{ID: 2, Email: "ben@example.com", PasswordHash: "x", FirstName: "Ben", LastName: "Cruz", Status: models.UserStatusActive},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("seed users: %v", err)
	}
	if err := db.Create(&models.Worker{WorkerID: 1, UserID: 1}).Error; err != nil {
		t.Fatalf("seed worker: %v", err)
	}
	if err := db.Create(&models.Employer{EmployerID: 1, UserID: 2}).Error; err != nil {
		t.Fatalf("seed employer: %v", err)
	}
	if err := db.Create(&models.ForumPost{PostID: 1, Title: "Deep Clean", Salary: 500, Location: "Pasig"}).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	contracts := []models.Contract{
		{ContractID: 1, PostID: uintPtr(1), WorkerID: uintPtr(1), EmployerID: uintPtr(1), Status: "active", CreatedAt: base},
		{ContractID: 2, PostID: uintPtr(1), WorkerID: uintPtr(1), EmployerID: uintPtr(1), Status: "completed", CreatedAt: base.Add(-time.Hour)},
	}
	if err := db.Create(&contracts).Error; err != nil {
		t.Fatalf("seed contracts: %v", err)
	}
	hires := []models.DirectHire{
		{HireID: 1, WorkerID: uintPtr(1), EmployerID: uintPtr(1), Status: "paid", TotalAmount: 800, CreatedAt: base.Add(-30 * time.Minute)},
	}
	if err := db.Create(&hires).Error; err != nil {
		t.Fatalf("seed hires: %v", err)
	}

	got, total, err := store.ListContracts(ctx, services.BookingFilter{Statuses: []string{"active", "pending_completion"}}, services.PageWindow{Limit: 10})
	if err != nil {
		t.Fatalf("ListContracts: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].ContractID != 1 {
		t.Fatalf("ListContracts=%+v total=%d", got, total)
	}

	got, total, err = store.ListContracts(ctx, services.BookingFilter{}, services.PageWindow{Limit: 1})
	if err != nil {
		t.Fatalf("ListContracts: %v", err)
	}
	if total != 2 || len(got) != 1 || got[0].ContractID != 1 {
		t.Fatalf("window ignored: rows=%+v total=%d", got, total)
	}

	times, err := store.DirectHireCreatedAt(ctx, base.Add(-time.Hour), base)
	if err != nil || len(times) != 1 {
		t.Fatalf("DirectHireCreatedAt=%v err=%v", times, err)
	}

	n, err := store.CountDirectHires(ctx, []string{"paid"})
	if err != nil || n != 1 {
		t.Fatalf("CountDirectHires=%d err=%v", n, err)
	}

	affected, err := store.UpdateDirectHireStatus(ctx, 1, "cancelled")
	if err != nil || affected != 1 {
		t.Fatalf("UpdateDirectHireStatus affected=%d err=%v", affected, err)
	}
	affected, err = store.UpdateContractStatus(ctx, 99, "cancelled")
	if err != nil || affected != 0 {
		t.Fatalf("UpdateContractStatus(missing) affected=%d err=%v", affected, err)
	}

	affected, err = store.DeleteContract(ctx, 2)
	if err != nil || affected != 1 {
		t.Fatalf("DeleteContract affected=%d err=%v", affected, err)
	}
	if _, err := store.GetContract(ctx, 2); !errors.Is(err, services.ErrBookingNotFound) {
		t.Fatalf("GetContract after delete err=%v", err)
	}

	svc := services.NewBookingService(store, services.BookingServiceOptions{StrictStatus: true})
	page, err := svc.ListBookings(ctx, services.BookingQuery{Limit: 10})
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(page.Rows) != 2 || page.Rows[0].Worker == nil || page.Rows[0].Worker.Name != "Ana Reyes" {
		t.Fatalf("rows=%+v", page.Rows)
	}
}

func TestAdminDirectoryIntegration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	dir := NewAdminDirectory(db)

	if err := db.Create(&models.User{ID: 5, Email: "admin@casaligan.ph", PasswordHash: "x", Status: models.UserStatusActive}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.Create(&models.Admin{AdminID: 1, UserID: 5}).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	user, err := dir.FindUserByEmail(ctx, "admin@casaligan.ph")
	if err != nil || user.ID != 5 {
		t.Fatalf("FindUserByEmail=%+v err=%v", user, err)
	}
	if _, err := dir.FindUserByEmail(ctx, "missing@casaligan.ph"); !errors.Is(err, services.ErrUserNotFound) {
		t.Fatalf("missing user err=%v", err)
	}
	admin, err := dir.FindAdminByUserID(ctx, 5)
	if err != nil || admin.AdminID != 1 {
		t.Fatalf("FindAdminByUserID=%+v err=%v", admin, err)
	}
	if _, err := dir.FindAdminByUserID(ctx, 6); !errors.Is(err, services.ErrNotAdmin) {
		t.Fatalf("non admin err=%v", err)
	}
}
