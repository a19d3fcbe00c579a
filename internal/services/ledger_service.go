package services

import (
	"errors"
	"fmt"

	"github.com/taskhive/taskhive-api/internal/repository"
	"gorm.io/gorm"
)

// LedgerService is the sole mutator of coin balances outside the
// transactional workflows. Every caller (top-up, task posting cost,
// manual corrections) shares this one path and one failure mode.
type LedgerService struct {
	userRepo repository.UserRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(userRepo repository.UserRepository) *LedgerService {
	return &LedgerService{userRepo: userRepo}
}

// Adjust applies a signed delta to an identity's balance as one
// conditional single-record update. No minimum-balance check is made;
// overdraft prevention is a caller policy.
func (s *LedgerService) Adjust(email string, delta int64) error {
	if err := s.userRepo.AdjustCoins(email, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	return nil
}
