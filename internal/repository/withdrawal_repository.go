package repository

import (
	"errors"

	"github.com/taskhive/taskhive-api/internal/models"
	"gorm.io/gorm"
)

// ErrWithdrawalGone is returned when the request was already processed.
var ErrWithdrawalGone = errors.New("withdrawal repository: request no longer pending")

// GormWithdrawalRepository is a GORM implementation of WithdrawalRepository
type GormWithdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new WithdrawalRepository
func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &GormWithdrawalRepository{db: db}
}

// Create creates a new withdrawal request
func (r *GormWithdrawalRepository) Create(withdrawal *models.Withdrawal) error {
	return r.db.Create(withdrawal).Error
}

// FindByID finds a withdrawal request by ID
func (r *GormWithdrawalRepository) FindByID(id uint64) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	if err := r.db.First(&withdrawal, id).Error; err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// List lists every pending withdrawal request
func (r *GormWithdrawalRepository) List() ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	if err := r.db.Find(&withdrawals).Error; err != nil {
		return nil, err
	}
	return withdrawals, nil
}

// ApproveAndDeduct processes an approval as one transaction: remove the
// request, deduct the coins from the worker, write the notification. The
// delete doubles as the concurrency guard: a second approval of the same
// request affects zero rows and aborts.
func (r *GormWithdrawalRepository) ApproveAndDeduct(withdrawal *models.Withdrawal, notification *models.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Withdrawal{}, withdrawal.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrWithdrawalGone
		}

		deduct := tx.Model(&models.User{}).
			Where("email = ?", withdrawal.WorkerEmail).
			Update("coins", gorm.Expr("coins - ?", withdrawal.Coins))
		if deduct.Error != nil {
			return deduct.Error
		}
		if deduct.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Create(notification).Error
	})
}
