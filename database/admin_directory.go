package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"casaligan-admin-server/models"
	"casaligan-admin-server/services"
)

// AdminDirectory finds console accounts in users and admins.
type AdminDirectory struct {
	db *gorm.DB
}

func NewAdminDirectory(db *gorm.DB) *AdminDirectory {
	return &AdminDirectory{db: db}
}

var _ services.AdminDirectory = (*AdminDirectory)(nil)

func (d *AdminDirectory) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("LOWER(email) = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *AdminDirectory) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *AdminDirectory) FindAdminByUserID(ctx context.Context, userID uint) (*models.Admin, error) {
	var admin models.Admin
	err := d.db.WithContext(ctx).Where("user_id = ?", userID).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrNotAdmin
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
