package models

import (
	"time"
)

// Contract is a job-contract booking: a worker accepted against a forum post.
type Contract struct {
	ContractID uint       `json:"contract_id" gorm:"column:contract_id;primaryKey"`
	PostID     *uint      `json:"post_id" gorm:"column:post_id"`
	WorkerID   *uint      `json:"worker_id" gorm:"column:worker_id;index"`
	EmployerID *uint      `json:"employer_id" gorm:"column:employer_id;index"`
	Status     string     `json:"status" gorm:"type:varchar(30);not null;default:'pending'"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Contract model
func (Contract) TableName() string {
	return "contracts"
}

// DirectHire is a booking made against a worker's package without a post.
type DirectHire struct {
	HireID        uint       `json:"hire_id" gorm:"column:hire_id;primaryKey"`
	EmployerID    *uint      `json:"employer_id" gorm:"column:employer_id;index"`
	WorkerID      *uint      `json:"worker_id" gorm:"column:worker_id;index"`
	Status        string     `json:"status" gorm:"type:varchar(30);not null;default:'pending'"`
	ScheduledDate *time.Time `json:"scheduled_date" gorm:"type:date"`
	TotalAmount   float64    `json:"total_amount" gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// TableName specifies the table name for the DirectHire model
func (DirectHire) TableName() string {
	return "direct_hires"
}

// ForumPost is the job post a contract was accepted against.
type ForumPost struct {
	PostID     uint    `json:"post_id" gorm:"column:post_id;primaryKey"`
	EmployerID *uint   `json:"employer_id" gorm:"column:employer_id"`
	Title      string  `json:"title" gorm:"size:255"`
	Salary     float64 `json:"salary" gorm:"type:decimal(10,2)"`
	Location   string  `json:"location" gorm:"size:255"`
	// StartDate is stored as text by the mobile client (YYYY-MM-DD).
	StartDate *string `json:"start_date" gorm:"column:start_date"`
}

func (ForumPost) TableName() string {
	return "forumposts"
}
