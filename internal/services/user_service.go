package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailRequired = errors.New("email is required")
	ErrInvalidRole   = errors.New("role must be Buyer, Worker or Admin")
)

// Starting balances granted on first sign-in, per role.
const (
	signupCoinsBuyer  = 50
	signupCoinsWorker = 10
)

// UserService handles user records and admin arbitration over them.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpsertInput represents the identity payload received on first sign-in.
type UpsertInput struct {
	Email    string
	Name     string
	PhotoURL string
	Role     models.Role
}

// Upsert creates the user on first sign-in. A later sign-in with the
// same email leaves the existing record untouched. Reports whether a
// record was created.
func (s *UserService) Upsert(input UpsertInput) (*models.User, bool, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, false, ErrEmailRequired
	}
	if !input.Role.Valid() {
		return nil, false, ErrInvalidRole
	}

	user := &models.User{
		Email:    email,
		Name:     input.Name,
		PhotoURL: input.PhotoURL,
		Role:     input.Role,
		Coins:    signupCoins(input.Role),
	}

	created, err := s.userRepo.UpsertIfAbsent(user)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert user: %w", err)
	}

	return user, created, nil
}

// Get retrieves a user by email
func (s *UserService) Get(email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListManaged lists the users an admin arbitrates: Buyers and Workers.
// Admin accounts never appear in this listing.
func (s *UserService) ListManaged() ([]models.User, error) {
	users, err := s.userRepo.ListByRoles([]models.Role{models.RoleBuyer, models.RoleWorker})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// TopByCoins lists the richest users for the public home section
func (s *UserService) TopByCoins(limit int) ([]models.User, error) {
	users, err := s.userRepo.TopByCoins(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateRole changes a user's role, restricted to the closed enum
func (s *UserService) UpdateRole(email string, role models.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	if err := s.userRepo.UpdateRole(email, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update role: %w", err)
	}
	return nil
}

// Delete removes a user record
func (s *UserService) Delete(id uint64) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func signupCoins(role models.Role) int64 {
	switch role {
	case models.RoleBuyer:
		return signupCoinsBuyer
	case models.RoleWorker:
		return signupCoinsWorker
	default:
		return 0
	}
}
