package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"casaligan-admin-server/models"
	"casaligan-admin-server/services"
)

// BookingStore reads and writes both booking tables through gorm.
type BookingStore struct {
	db *gorm.DB
}

func NewBookingStore(db *gorm.DB) *BookingStore {
	return &BookingStore{db: db}
}

var _ services.BookingStore = (*BookingStore)(nil)

func applyFilter(q *gorm.DB, filter services.BookingFilter) *gorm.DB {
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at <= ?", *filter.CreatedTo)
	}
	return q
}

func applyWindow(q *gorm.DB, window services.PageWindow) *gorm.DB {
	if window.Limit > 0 {
		q = q.Limit(window.Limit)
	}
	if window.Offset > 0 {
		q = q.Offset(window.Offset)
	}
	return q
}

func (s *BookingStore) ListContracts(ctx context.Context, filter services.BookingFilter, window services.PageWindow) ([]models.Contract, int64, error) {
	base := func() *gorm.DB {
		return applyFilter(s.db.WithContext(ctx).Model(&models.Contract{}), filter)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contracts []models.Contract
	err := applyWindow(base(), window).
		Order("created_at DESC").
		Order("contract_id DESC").
		Find(&contracts).Error
	if err != nil {
		return nil, 0, err
	}
	return contracts, total, nil
}

func (s *BookingStore) ListDirectHires(ctx context.Context, filter services.BookingFilter, window services.PageWindow) ([]models.DirectHire, int64, error) {
	base := func() *gorm.DB {
		return applyFilter(s.db.WithContext(ctx).Model(&models.DirectHire{}), filter)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var hires []models.DirectHire
	err := applyWindow(base(), window).
		Order("created_at DESC").
		Order("hire_id DESC").
		Find(&hires).Error
	if err != nil {
		return nil, 0, err
	}
	return hires, total, nil
}

func (s *BookingStore) GetContract(ctx context.Context, id uint) (*models.Contract, error) {
	var c models.Contract
	err := s.db.WithContext(ctx).Where("contract_id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *BookingStore) GetDirectHire(ctx context.Context, id uint) (*models.DirectHire, error) {
	var h models.DirectHire
	err := s.db.WithContext(ctx).Where("hire_id = ?", id).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *BookingStore) createdAtBetween(ctx context.Context, model any, from, to time.Time) ([]time.Time, error) {
	var times []time.Time
	err := s.db.WithContext(ctx).Model(model).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at").
		Pluck("created_at", &times).Error
	return times, err
}

func (s *BookingStore) ContractCreatedAt(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	return s.createdAtBetween(ctx, &models.Contract{}, from, to)
}

func (s *BookingStore) DirectHireCreatedAt(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	return s.createdAtBetween(ctx, &models.DirectHire{}, from, to)
}

func (s *BookingStore) countByStatus(ctx context.Context, model any, statuses []string) (int64, error) {
	q := s.db.WithContext(ctx).Model(model)
	if statuses != nil {
		q = q.Where("status IN ?", statuses)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (s *BookingStore) CountContracts(ctx context.Context, statuses []string) (int64, error) {
	return s.countByStatus(ctx, &models.Contract{}, statuses)
}

func (s *BookingStore) CountDirectHires(ctx context.Context, statuses []string) (int64, error) {
	return s.countByStatus(ctx, &models.DirectHire{}, statuses)
}

func (s *BookingStore) UpdateContractStatus(ctx context.Context, id uint, status string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Contract{}).
		Where("contract_id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (s *BookingStore) UpdateDirectHireStatus(ctx context.Context, id uint, status string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.DirectHire{}).
		Where("hire_id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (s *BookingStore) DeleteContract(ctx context.Context, id uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("contract_id = ?", id).Delete(&models.Contract{})
	return res.RowsAffected, res.Error
}

func (s *BookingStore) DeleteDirectHire(ctx context.Context, id uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("hire_id = ?", id).Delete(&models.DirectHire{})
	return res.RowsAffected, res.Error
}

func (s *BookingStore) GetPostsByIDs(ctx context.Context, ids []uint) ([]models.ForumPost, error) {
	var posts []models.ForumPost
	if len(ids) == 0 {
		return posts, nil
	}
	err := s.db.WithContext(ctx).Where("post_id IN ?", ids).Find(&posts).Error
	return posts, err
}

func (s *BookingStore) GetWorkersByIDs(ctx context.Context, ids []uint) ([]models.Worker, error) {
	var workers []models.Worker
	if len(ids) == 0 {
		return workers, nil
	}
	err := s.db.WithContext(ctx).Where("worker_id IN ?", ids).Find(&workers).Error
	return workers, err
}

func (s *BookingStore) GetEmployersByIDs(ctx context.Context, ids []uint) ([]models.Employer, error) {
	var employers []models.Employer
	if len(ids) == 0 {
		return employers, nil
	}
	err := s.db.WithContext(ctx).Where("employer_id IN ?", ids).Find(&employers).Error
	return employers, err
}

func (s *BookingStore) GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.WithContext(ctx).
		Select("id", "first_name", "last_name", "email", "phone_number", "status").
		Where("id IN ?", ids).
		Find(&users).Error
	return users, err
}
