package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"casaligan-admin-server/models"
	"casaligan-admin-server/utils"
)

type seedUser struct {
	Email     string
	Phone     string
	FirstName string
	LastName  string
}

type seedContract struct {
	PostTitle string
	Salary    float64
	Location  string
	StartDate string
	Status    models.ContractStatus
	DaysAgo   int
}

type seedHire struct {
	Status    models.DirectHireStatus
	Amount    float64
	Scheduled string
	DaysAgo   int
}

// seedBookings fills an empty database with a demo admin and a mix of
// contracts and direct hires covering every stored status.
func seedBookings(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("✅ Successfully connected to database")

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM contracts").Scan(&count); err != nil {
		return fmt.Errorf("failed to check contracts count (run migrations first): %w", err)
	}
	if count > 0 {
		log.Printf("⚠️  Bookings already exist (%d contracts found). Skipping seed.", count)
		return nil
	}

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}
	hash, err := utils.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertUser := func(u seedUser) (uint, error) {
		var id uint
		err := tx.QueryRow(
			`INSERT INTO users (email, phone_number, password_hash, first_name, last_name, status, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING id`,
			u.Email, u.Phone, hash, u.FirstName, u.LastName, models.UserStatusActive,
		).Scan(&id)
		return id, err
	}

	adminUserID, err := insertUser(seedUser{Email: "admin@casaligan.ph", Phone: "09170000000", FirstName: "Casaligan", LastName: "Admin"})
	if err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO admins (user_id) VALUES ($1)`, adminUserID); err != nil {
		return fmt.Errorf("failed to insert admin: %w", err)
	}

	workerUsers := []seedUser{
		{Email: "ana.reyes@example.com", Phone: "09171234567", FirstName: "Ana", LastName: "Reyes"},
		{Email: "liza.bautista@example.com", Phone: "09179876543", FirstName: "Liza", LastName: "Bautista"},
	}
	employerUsers := []seedUser{
		{Email: "ben.cruz@example.com", Phone: "09181234567", FirstName: "Ben", LastName: "Cruz"},
		{Email: "carla.santos@example.com", Phone: "09189876543", FirstName: "Carla", LastName: "Santos"},
	}

	var workerIDs, employerIDs []uint
	for _, u := range workerUsers {
		userID, err := insertUser(u)
		if err != nil {
			return fmt.Errorf("failed to insert worker user %s: %w", u.Email, err)
		}
		var workerID uint
		if err := tx.QueryRow(`INSERT INTO workers (user_id) VALUES ($1) RETURNING worker_id`, userID).Scan(&workerID); err != nil {
			return fmt.Errorf("failed to insert worker: %w", err)
		}
		workerIDs = append(workerIDs, workerID)
	}
	for _, u := range employerUsers {
		userID, err := insertUser(u)
		if err != nil {
			return fmt.Errorf("failed to insert employer user %s: %w", u.Email, err)
		}
		var employerID uint
		if err := tx.QueryRow(`INSERT INTO employers (user_id) VALUES ($1) RETURNING employer_id`, userID).Scan(&employerID); err != nil {
			return fmt.Errorf("failed to insert employer: %w", err)
		}
		employerIDs = append(employerIDs, employerID)
	}

	contracts := []seedContract{
		{PostTitle: "Deep Clean", Salary: 500, Location: "Quezon City", StartDate: "2024-01-10", Status: models.ContractStatusActive, DaysAgo: 2},
		{PostTitle: "Weekly Laundry", Salary: 250, Location: "Makati", Status: models.ContractStatusPending, DaysAgo: 4},
		{PostTitle: "Move-out Cleaning", Salary: 1200, Location: "Pasig", StartDate: "2024-02-01", Status: models.ContractStatusPendingCompletion, DaysAgo: 9},
		{PostTitle: "Live-in Helper", Salary: 8000, Location: "Taguig", Status: models.ContractStatusCompleted, DaysAgo: 16},
		{PostTitle: "Yard Work", Salary: 400, Location: "Manila", Status: models.ContractStatusCancelled, DaysAgo: 23},
	}
	for i, c := range contracts {
		employerID := employerIDs[i%len(employerIDs)]
		workerID := workerIDs[i%len(workerIDs)]
		createdAt := time.Now().AddDate(0, 0, -c.DaysAgo)

		var startDate any
		if c.StartDate != "" {
			startDate = c.StartDate
		}
		var postID uint
		if err := tx.QueryRow(
			`INSERT INTO forumposts (employer_id, title, salary, location, start_date) VALUES ($1, $2, $3, $4, $5) RETURNING post_id`,
			employerID, c.PostTitle, c.Salary, c.Location, startDate,
		).Scan(&postID); err != nil {
			return fmt.Errorf("failed to insert post %q: %w", c.PostTitle, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO contracts (post_id, worker_id, employer_id, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
			postID, workerID, employerID, c.Status, createdAt,
		); err != nil {
			return fmt.Errorf("failed to insert contract for %q: %w", c.PostTitle, err)
		}
		log.Printf("✅ Seeded contract %q (%s)", c.PostTitle, c.Status)
	}

	hires := []seedHire{
		{Status: models.DirectHireStatusPending, Amount: 600, Scheduled: "2024-03-02", DaysAgo: 1},
		{Status: models.DirectHireStatusAccepted, Amount: 750, Scheduled: "2024-03-05", DaysAgo: 3},
		{Status: models.DirectHireStatusInProgress, Amount: 900, DaysAgo: 6},
		{Status: models.DirectHireStatusPendingCompletion, Amount: 450, DaysAgo: 8},
		{Status: models.DirectHireStatusCompleted, Amount: 1100, DaysAgo: 12},
		{Status: models.DirectHireStatusPaid, Amount: 800, Scheduled: "2024-02-14", DaysAgo: 15},
		{Status: models.DirectHireStatusCancelled, Amount: 300, DaysAgo: 20},
		{Status: models.DirectHireStatusRejected, Amount: 350, DaysAgo: 30},
	}
	for i, h := range hires {
		var scheduled any
		if h.Scheduled != "" {
			scheduled = h.Scheduled
		}
		if _, err := tx.Exec(
			`INSERT INTO direct_hires (employer_id, worker_id, status, scheduled_date, total_amount, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			employerIDs[i%len(employerIDs)], workerIDs[(i+1)%len(workerIDs)], h.Status, scheduled, h.Amount, time.Now().AddDate(0, 0, -h.DaysAgo),
		); err != nil {
			return fmt.Errorf("failed to insert direct hire (%s): %w", h.Status, err)
		}
		log.Printf("✅ Seeded direct hire (%s, %.2f)", h.Status, h.Amount)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	log.Printf("✨ Booking seeding completed: %d contracts, %d direct hires, admin admin@casaligan.ph", len(contracts), len(hires))
	return nil
}
