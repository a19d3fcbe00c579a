package services

import (
	"fmt"

	"github.com/taskhive/taskhive-api/internal/dto"
	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/repository"
)

// StatsService computes read-only rollups over the other stores. It
// never writes; each figure is computed independently with no
// cross-component locking.
type StatsService struct {
	userRepo       repository.UserRepository
	submissionRepo repository.SubmissionRepository
	paymentRepo    repository.PaymentRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(userRepo repository.UserRepository, submissionRepo repository.SubmissionRepository, paymentRepo repository.PaymentRepository) *StatsService {
	return &StatsService{
		userRepo:       userRepo,
		submissionRepo: submissionRepo,
		paymentRepo:    paymentRepo,
	}
}

// BuyerStats returns a buyer's balance, pending-decision queue size and
// all-time paid-in dollars.
func (s *StatsService) BuyerStats(email string) (*dto.BuyerStats, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrUserNotFound
	}

	pending, err := s.submissionRepo.CountByBuyerAndStatus(email, models.SubmissionPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending submissions: %w", err)
	}

	paid, err := s.paymentRepo.SumDollarsByBuyer(email)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}

	return &dto.BuyerStats{
		Coins:              user.Coins,
		PendingSubmissions: pending,
		TotalPaidDollars:   paid,
	}, nil
}

// WorkerStats returns a worker's balance, total submission count and
// approved earnings.
func (s *StatsService) WorkerStats(email string) (*dto.WorkerStats, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrUserNotFound
	}

	total, err := s.submissionRepo.CountByWorker(email)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}

	earnings, err := s.submissionRepo.SumPayableByWorkerAndStatus(email, models.SubmissionApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to sum earnings: %w", err)
	}

	return &dto.WorkerStats{
		Coins:            user.Coins,
		TotalSubmissions: total,
		TotalEarnings:    earnings,
	}, nil
}

// AdminStats returns platform-wide rollups.
func (s *StatsService) AdminStats() (*dto.AdminStats, error) {
	totalUsers, err := s.userRepo.CountAll()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	buyers, err := s.userRepo.CountByRole(models.RoleBuyer)
	if err != nil {
		return nil, fmt.Errorf("failed to count buyers: %w", err)
	}

	workers, err := s.userRepo.CountByRole(models.RoleWorker)
	if err != nil {
		return nil, fmt.Errorf("failed to count workers: %w", err)
	}

	totalCoins, err := s.userRepo.SumCoins()
	if err != nil {
		return nil, fmt.Errorf("failed to sum coins: %w", err)
	}

	totalPayments, err := s.paymentRepo.SumCoins()
	if err != nil {
		return nil, fmt.Errorf("failed to sum payment credits: %w", err)
	}

	return &dto.AdminStats{
		TotalUsers:    totalUsers,
		TotalBuyers:   buyers,
		TotalWorkers:  workers,
		TotalCoins:    totalCoins,
		TotalPayments: totalPayments,
	}, nil
}
