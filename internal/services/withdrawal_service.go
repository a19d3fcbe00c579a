package services

import (
	"errors"
	"fmt"

	"github.com/taskhive/taskhive-api/internal/constants"
	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrWithdrawalNotFound  = errors.New("withdrawal request not found")
	ErrWithdrawalProcessed = errors.New("withdrawal request already processed")
	ErrBadWithdrawalAmount = errors.New("withdrawal amount must be positive")
)

// WithdrawalService handles worker cash-out requests and their admin
// approval. Approval removes the request, deducts the coins and writes
// the notification in one transaction so the three can never diverge.
type WithdrawalService struct {
	withdrawalRepo repository.WithdrawalRepository
	notifications  *NotificationService
}

// NewWithdrawalService creates a new WithdrawalService
func NewWithdrawalService(withdrawalRepo repository.WithdrawalRepository, notifications *NotificationService) *WithdrawalService {
	return &WithdrawalService{
		withdrawalRepo: withdrawalRepo,
		notifications:  notifications,
	}
}

// RequestInput represents a worker's cash-out request
type RequestInput struct {
	WorkerEmail string
	WorkerName  string
	Coins       int64
	Dollars     float64
}

// Request creates a pending withdrawal
func (s *WithdrawalService) Request(input RequestInput) (*models.Withdrawal, error) {
	if input.Coins <= 0 {
		return nil, ErrBadWithdrawalAmount
	}

	withdrawal := &models.Withdrawal{
		WorkerEmail: input.WorkerEmail,
		WorkerName:  input.WorkerName,
		Coins:       input.Coins,
		Dollars:     input.Dollars,
	}

	if err := s.withdrawalRepo.Create(withdrawal); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	return withdrawal, nil
}

// List lists every pending withdrawal request
func (s *WithdrawalService) List() ([]models.Withdrawal, error) {
	withdrawals, err := s.withdrawalRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return withdrawals, nil
}

// Approve processes a pending request: the record is deleted, the coins
// deducted from the worker and the approval notification written, all in
// one transaction.
func (s *WithdrawalService) Approve(id uint64) error {
	withdrawal, err := s.withdrawalRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWithdrawalNotFound
		}
		return fmt.Errorf("failed to find withdrawal: %w", err)
	}

	notification := &models.Notification{
		Message:     fmt.Sprintf("Your withdrawal request of %d has been approved.", withdrawal.Coins),
		ToEmail:     withdrawal.WorkerEmail,
		ActionRoute: constants.WorkerHomeRoute,
		Status:      models.NotificationUnread,
	}

	if err := s.withdrawalRepo.ApproveAndDeduct(withdrawal, notification); err != nil {
		switch {
		case errors.Is(err, repository.ErrWithdrawalGone):
			return ErrWithdrawalProcessed
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrWorkerGone
		default:
			return fmt.Errorf("failed to approve withdrawal: %w", err)
		}
	}

	s.notifications.InvalidateUnreadCount(withdrawal.WorkerEmail)
	return nil
}
