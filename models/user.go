package models

import (
	"strings"
	"time"
)

type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PhoneNumber  string     `json:"phone_number" gorm:"size:20"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	FirstName    string     `json:"first_name" gorm:"size:100"`
	LastName     string     `json:"last_name" gorm:"size:100"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

type Worker struct {
	WorkerID uint `json:"worker_id" gorm:"column:worker_id;primaryKey"`
	UserID   uint `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
}

func (Worker) TableName() string {
	return "workers"
}

type Employer struct {
	EmployerID uint `json:"employer_id" gorm:"column:employer_id;primaryKey"`
	UserID     uint `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
}

func (Employer) TableName() string {
	return "employers"
}

type Admin struct {
	AdminID uint `json:"admin_id" gorm:"column:admin_id;primaryKey"`
	UserID  uint `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
}

func (Admin) TableName() string {
	return "admins"
}
