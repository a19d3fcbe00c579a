package repository

import (
	"errors"

	"github.com/taskhive/taskhive-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// UpsertIfAbsent creates the user unless the email is already taken.
// The existing record is never overwritten: sign-in after the first one
// is a no-op.
func (r *GormUserRepository) UpsertIfAbsent(user *models.User) (bool, error) {
	var existing models.User
	err := r.db.Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		*user = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := r.db.Create(user).Error; err != nil {
		return false, err
	}
	return true, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByRoles lists users whose role is in the given set
func (r *GormUserRepository) ListByRoles(roles []models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role IN ?", roles).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// TopByCoins lists the richest users, highest balance first
func (r *GormUserRepository) TopByCoins(limit int) ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("coins DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateRole changes a user's role
func (r *GormUserRepository) UpdateRole(email string, role models.Role) error {
	result := r.db.Model(&models.User{}).Where("email = ?", email).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a user record
func (r *GormUserRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustCoins applies a signed delta with one conditional update scoped
// by email. The statement is the only mutation path for balances.
func (r *GormUserRepository) AdjustCoins(email string, delta int64) error {
	result := r.db.Model(&models.User{}).
		Where("email = ?", email).
		Update("coins", gorm.Expr("coins + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountAll counts every user record
func (r *GormUserRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountByRole counts users holding the given role
func (r *GormUserRepository) CountByRole(role models.Role) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// SumCoins sums every user's balance
func (r *GormUserRepository) SumCoins() (int64, error) {
	var total int64
	err := r.db.Model(&models.User{}).
		Select("COALESCE(SUM(coins), 0)").
		Scan(&total).Error
	return total, err
}
