package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrOfferNotFound  = errors.New("payment offer not found")
	ErrAmountTooSmall = errors.New("payment amount must be at least one cent")
	ErrGatewayFailure = errors.New("payment gateway failed")
)

// PaymentService handles coin purchases: offers, gateway intents and
// confirmed payment records.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	gateway     PaymentGateway
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo repository.PaymentRepository, gateway PaymentGateway) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		gateway:     gateway,
	}
}

// ListOffers lists the purchasable coin packages
func (s *PaymentService) ListOffers() ([]models.PaymentOffer, error) {
	offers, err := s.paymentRepo.ListOffers()
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}

// GetOffer returns a single coin package
func (s *PaymentService) GetOffer(id uint64) (*models.PaymentOffer, error) {
	offer, err := s.paymentRepo.FindOfferByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to find offer: %w", err)
	}
	return offer, nil
}

// CreateIntent asks the gateway for a client secret covering the given
// dollar amount. The amount is only checked for presence; the gateway's
// confirmation is trusted afterwards.
func (s *PaymentService) CreateIntent(ctx context.Context, dollars float64) (string, error) {
	cents := int64(math.Round(dollars * 100))
	if cents < 1 {
		return "", ErrAmountTooSmall
	}

	secret, err := s.gateway.CreateIntent(ctx, cents)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}

	return secret, nil
}

// ConfirmInput represents a confirmed purchase reported by the client
// after the gateway settles.
type ConfirmInput struct {
	BuyerEmail string
	Dollars    float64
	Coins      int64
}

// Confirm persists the immutable payment record and credits the coins in
// one transaction.
func (s *PaymentService) Confirm(input ConfirmInput) (*models.PaymentRecord, error) {
	record := &models.PaymentRecord{
		BuyerEmail: input.BuyerEmail,
		Dollars:    input.Dollars,
		Coins:      input.Coins,
	}

	if err := s.paymentRepo.CreateRecordWithCredit(record); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}

	return record, nil
}

// History lists a buyer's confirmed payments, newest first
func (s *PaymentService) History(email string) ([]models.PaymentRecord, error) {
	records, err := s.paymentRepo.ListRecordsByBuyer(email)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return records, nil
}
