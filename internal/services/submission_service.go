package services

import (
	"errors"
	"fmt"

	"github.com/taskhive/taskhive-api/internal/constants"
	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/repository"
	"github.com/taskhive/taskhive-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrSubmissionDecided  = errors.New("submission already approved or rejected")
	ErrSubmissionTaskGone = errors.New("task for submission not found")
	ErrWorkerGone         = errors.New("worker record not found")
	ErrDetailsRequired    = errors.New("submission details are required")
)

// SubmissionService owns the submission status state machine:
// Pending -> Approved | Rejected, both terminal. Approval pays the
// worker and notifies them in the same store transaction as the status
// flip; rejection notifies without paying.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	taskRepo       repository.TaskRepository
	notifications  *NotificationService
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(submissionRepo repository.SubmissionRepository, taskRepo repository.TaskRepository, notifications *NotificationService) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		taskRepo:       taskRepo,
		notifications:  notifications,
	}
}

// SubmitInput represents input for creating a submission
type SubmitInput struct {
	TaskID      uint64
	WorkerEmail string
	WorkerName  string
	Details     string
}

// Submit creates a Pending submission. Task title, buyer and payable
// amount are snapshotted from the task at this instant; later task edits
// never change what the worker is owed.
func (s *SubmissionService) Submit(input SubmitInput) (*models.Submission, error) {
	if input.Details == "" {
		return nil, ErrDetailsRequired
	}

	task, err := s.taskRepo.FindByID(input.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionTaskGone
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	submission := &models.Submission{
		TaskID:        task.ID,
		TaskTitle:     task.Title,
		PayableAmount: task.PayableAmount,
		Details:       input.Details,
		WorkerEmail:   input.WorkerEmail,
		WorkerName:    input.WorkerName,
		BuyerEmail:    task.BuyerEmail,
		Status:        models.SubmissionPending,
	}

	if err := s.submissionRepo.Create(submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	return submission, nil
}

// Approve moves a Pending submission to Approved, credits the snapshotted
// payable amount to the worker and writes the earned notification, all in
// one transaction. Replays against a terminal submission fail with
// ErrSubmissionDecided.
func (s *SubmissionService) Approve(id uint64) (*models.Submission, error) {
	submission, err := s.findPending(id)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		Message: fmt.Sprintf("You have earned %d from %s for completing %s",
			submission.PayableAmount, submission.BuyerEmail, submission.TaskTitle),
		ToEmail:     submission.WorkerEmail,
		ActionRoute: constants.WorkerHomeRoute,
		Status:      models.NotificationUnread,
	}

	err = s.submissionRepo.Decide(id, models.SubmissionApproved, submission.WorkerEmail, submission.PayableAmount, notification)
	if err != nil {
		return nil, s.mapDecideError(err)
	}

	s.notifications.InvalidateUnreadCount(submission.WorkerEmail)

	submission.Status = models.SubmissionApproved
	return submission, nil
}

// Reject moves a Pending submission to Rejected and notifies the worker
// of the rejection and the rejecting buyer. No balance changes.
func (s *SubmissionService) Reject(id uint64) (*models.Submission, error) {
	submission, err := s.findPending(id)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		Message: fmt.Sprintf("Your submission for %s has been rejected by %s",
			submission.TaskTitle, submission.BuyerEmail),
		ToEmail:     submission.WorkerEmail,
		ActionRoute: constants.WorkerHomeRoute,
		Status:      models.NotificationUnread,
	}

	err = s.submissionRepo.Decide(id, models.SubmissionRejected, submission.WorkerEmail, 0, notification)
	if err != nil {
		return nil, s.mapDecideError(err)
	}

	s.notifications.InvalidateUnreadCount(submission.WorkerEmail)

	submission.Status = models.SubmissionRejected
	return submission, nil
}

// ListPendingForBuyer lists the submissions awaiting a buyer's decision
func (s *SubmissionService) ListPendingForBuyer(email string) ([]models.Submission, error) {
	submissions, err := s.submissionRepo.ListByBuyerAndStatus(email, models.SubmissionPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending submissions: %w", err)
	}
	return submissions, nil
}

// ListApprovedForWorker lists a worker's approved submissions
func (s *SubmissionService) ListApprovedForWorker(email string) ([]models.Submission, error) {
	submissions, err := s.submissionRepo.ListByWorkerAndStatus(email, models.SubmissionApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved submissions: %w", err)
	}
	return submissions, nil
}

// ListByWorker lists a worker's submissions with pagination
func (s *SubmissionService) ListByWorker(email string, params utils.PaginationParams) ([]models.Submission, int64, error) {
	submissions, total, err := s.submissionRepo.ListByWorker(email, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, total, nil
}

// Count counts every submission record
func (s *SubmissionService) Count() (int64, error) {
	return s.submissionRepo.Count()
}

func (s *SubmissionService) findPending(id uint64) (*models.Submission, error) {
	submission, err := s.submissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	if submission.Status != models.SubmissionPending {
		return nil, ErrSubmissionDecided
	}

	return submission, nil
}

func (s *SubmissionService) mapDecideError(err error) error {
	switch {
	case errors.Is(err, repository.ErrAlreadyDecided):
		return ErrSubmissionDecided
	case errors.Is(err, repository.ErrWorkerMissing):
		return ErrWorkerGone
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrSubmissionNotFound
	default:
		return fmt.Errorf("failed to decide submission: %w", err)
	}
}
