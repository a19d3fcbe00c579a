package repository

import (
	"errors"

	"github.com/taskhive/taskhive-api/internal/database"
	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrAlreadyDecided is returned when a terminal submission is decided again.
	ErrAlreadyDecided = errors.New("submission repository: submission already decided")
	// ErrWorkerMissing is returned when the payout target no longer exists.
	ErrWorkerMissing = errors.New("submission repository: worker record missing")
)

// GormSubmissionRepository is a GORM implementation of SubmissionRepository
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// Create creates a new submission
func (r *GormSubmissionRepository) Create(submission *models.Submission) error {
	return r.db.Create(submission).Error
}

// FindByID finds a submission by ID
func (r *GormSubmissionRepository) FindByID(id uint64) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// Decide performs the terminal transition as one transaction: a
// conditional status update guarded on Pending, the worker payout when
// credit is non-zero, and the notification write. The guard makes the
// Pending -> {Approved, Rejected} transition one-shot even under
// concurrent identical requests.
func (r *GormSubmissionRepository) Decide(id uint64, status models.SubmissionStatus, workerEmail string, credit int64, notification *models.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Submission{}).
			Where("id = ? AND status = ?", id, models.SubmissionPending).
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var existing models.Submission
			if err := tx.First(&existing, id).Error; err != nil {
				return err
			}
			return ErrAlreadyDecided
		}

		if credit != 0 {
			payout := tx.Model(&models.User{}).
				Where("email = ?", workerEmail).
				Update("coins", gorm.Expr("coins + ?", credit))
			if payout.Error != nil {
				return payout.Error
			}
			if payout.RowsAffected == 0 {
				return ErrWorkerMissing
			}
		}

		return tx.Create(notification).Error
	})
}

// ListByWorker lists a worker's submissions with pagination
func (r *GormSubmissionRepository) ListByWorker(email string, params utils.PaginationParams) ([]models.Submission, int64, error) {
	query := r.db.Model(&models.Submission{}).Where("worker_email = ?", email)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []models.Submission
	err := query.Scopes(database.Paginate(params)).
		Find(&submissions).Error
	if err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

// ListByWorkerAndStatus lists a worker's submissions in the given status
func (r *GormSubmissionRepository) ListByWorkerAndStatus(email string, status models.SubmissionStatus) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.Where("worker_email = ? AND status = ?", email, status).
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// ListByBuyerAndStatus lists submissions for a buyer in the given status
func (r *GormSubmissionRepository) ListByBuyerAndStatus(email string, status models.SubmissionStatus) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.Where("buyer_email = ? AND status = ?", email, status).
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// Count counts every submission record
func (r *GormSubmissionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Submission{}).Count(&count).Error
	return count, err
}

// CountByWorker counts a worker's submissions
func (r *GormSubmissionRepository) CountByWorker(email string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Submission{}).
		Where("worker_email = ?", email).
		Count(&count).Error
	return count, err
}

// CountByBuyerAndStatus counts a buyer's submissions in the given status
func (r *GormSubmissionRepository) CountByBuyerAndStatus(email string, status models.SubmissionStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Submission{}).
		Where("buyer_email = ? AND status = ?", email, status).
		Count(&count).Error
	return count, err
}

// SumPayableByWorkerAndStatus sums payable_amount over a worker's
// submissions in the given status
func (r *GormSubmissionRepository) SumPayableByWorkerAndStatus(email string, status models.SubmissionStatus) (int64, error) {
	var total int64
	err := r.db.Model(&models.Submission{}).
		Where("worker_email = ? AND status = ?", email, status).
		Select("COALESCE(SUM(payable_amount), 0)").
		Scan(&total).Error
	return total, err
}
