package repository

import (
	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// UpsertIfAbsent creates the user unless a record with the same email
	// already exists. Reports whether a new record was created.
	UpsertIfAbsent(user *models.User) (bool, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// ListByRoles lists users whose role is in the given set
	ListByRoles(roles []models.Role) ([]models.User, error)

	// TopByCoins lists the richest users, highest balance first
	TopByCoins(limit int) ([]models.User, error)

	// UpdateRole changes a user's role
	UpdateRole(email string, role models.Role) error

	// Delete removes a user record
	Delete(id uint64) error

	// AdjustCoins applies a signed delta to a user's balance with a single
	// conditional update scoped by email
	AdjustCoins(email string, delta int64) error

	// CountAll counts every user record
	CountAll() (int64, error)

	// CountByRole counts users holding the given role
	CountByRole(role models.Role) (int64, error)

	// SumCoins sums every user's balance
	SumCoins() (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// ListAvailable lists tasks with open worker slots, paginated
	ListAvailable(params utils.PaginationParams) ([]models.Task, error)

	// ListByBuyer lists a buyer's tasks, newest first
	ListByBuyer(email string) ([]models.Task, error)

	// ListAll lists every task (admin view)
	ListAll() ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error

	// Count counts every task record
	Count() (int64, error)
}

// SubmissionRepository defines the interface for submission data access
type SubmissionRepository interface {
	// Create creates a new submission
	Create(submission *models.Submission) error

	// FindByID finds a submission by ID
	FindByID(id uint64) (*models.Submission, error)

	// Decide moves a Pending submission into a terminal status, credits
	// the worker when credit is non-zero, and writes the notification, all
	// in one transaction. A submission already out of Pending is reported
	// via ErrAlreadyDecided.
	Decide(id uint64, status models.SubmissionStatus, workerEmail string, credit int64, notification *models.Notification) error

	// ListByWorker lists a worker's submissions with pagination
	ListByWorker(email string, params utils.PaginationParams) ([]models.Submission, int64, error)

	// ListByWorkerAndStatus lists a worker's submissions in the given status
	ListByWorkerAndStatus(email string, status models.SubmissionStatus) ([]models.Submission, error)

	// ListByBuyerAndStatus lists submissions awaiting a buyer in the given status
	ListByBuyerAndStatus(email string, status models.SubmissionStatus) ([]models.Submission, error)

	// Count counts every submission record
	Count() (int64, error)

	// CountByWorker counts a worker's submissions
	CountByWorker(email string) (int64, error)

	// CountByBuyerAndStatus counts a buyer's submissions in the given status
	CountByBuyerAndStatus(email string, status models.SubmissionStatus) (int64, error)

	// SumPayableByWorkerAndStatus sums payable_amount over a worker's
	// submissions in the given status
	SumPayableByWorkerAndStatus(email string, status models.SubmissionStatus) (int64, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates a new notification
	Create(notification *models.Notification) error

	// FindByID finds a notification by ID
	FindByID(id uint64) (*models.Notification, error)

	// ListByRecipient lists a user's notifications, unread before read,
	// newest first within each group
	ListByRecipient(email string) ([]models.Notification, error)

	// MarkRead flips a notification to read
	MarkRead(id uint64) error

	// CountUnread counts a user's unread notifications
	CountUnread(email string) (int64, error)
}

// WithdrawalRepository defines the interface for withdrawal data access
type WithdrawalRepository interface {
	// Create creates a new withdrawal request
	Create(withdrawal *models.Withdrawal) error

	// FindByID finds a withdrawal request by ID
	FindByID(id uint64) (*models.Withdrawal, error)

	// List lists every pending withdrawal request
	List() ([]models.Withdrawal, error)

	// ApproveAndDeduct deletes the request, deducts the coins from the
	// worker, and writes the approval notification in one transaction
	ApproveAndDeduct(withdrawal *models.Withdrawal, notification *models.Notification) error
}

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	// ListOffers lists the purchasable coin packages
	ListOffers() ([]models.PaymentOffer, error)

	// FindOfferByID finds a coin package by ID
	FindOfferByID(id uint64) (*models.PaymentOffer, error)

	// CreateRecordWithCredit persists the confirmed payment and credits the
	// purchased coins in one transaction
	CreateRecordWithCredit(record *models.PaymentRecord) error

	// ListRecordsByBuyer lists a buyer's confirmed payments, newest first
	ListRecordsByBuyer(email string) ([]models.PaymentRecord, error)

	// SumDollarsByBuyer sums the dollars a buyer has paid in
	SumDollarsByBuyer(email string) (float64, error)

	// SumCoins sums the coins credited across all confirmed payments
	SumCoins() (int64, error)
}
