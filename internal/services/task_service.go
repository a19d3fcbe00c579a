package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/repository"
	"github.com/taskhive/taskhive-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrNotTaskOwner   = errors.New("only the owning buyer can modify this task")
	ErrTitleRequired  = errors.New("title is required")
	ErrBadWorkerSlots = errors.New("required workers must not be negative")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title           string
	Detail          string
	RequiredWorkers int
	PayableAmount   int64
	SubmissionInfo  string
	ImageURL        string
	CompletionDate  *time.Time
	BuyerEmail      string
	BuyerName       string
}

// UpdateTaskInput represents a partial update to a task
type UpdateTaskInput struct {
	Title          *string
	Detail         *string
	SubmissionInfo *string
	ImageURL       *string
}

// Create stores a new task. The posting cost is debited by the caller
// through the ledger before this runs; no balance check happens here.
func (s *TaskService) Create(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.RequiredWorkers < 0 {
		return nil, ErrBadWorkerSlots
	}

	task := &models.Task{
		Title:           input.Title,
		Detail:          input.Detail,
		RequiredWorkers: input.RequiredWorkers,
		PayableAmount:   input.PayableAmount,
		SubmissionInfo:  input.SubmissionInfo,
		ImageURL:        input.ImageURL,
		CompletionDate:  input.CompletionDate,
		BuyerEmail:      input.BuyerEmail,
		BuyerName:       input.BuyerName,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListAvailable lists tasks with open worker slots, paginated
func (s *TaskService) ListAvailable(params utils.PaginationParams) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListAvailable(params)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListByOwner lists a buyer's tasks, newest first
func (s *TaskService) ListByOwner(email string) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByBuyer(email)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListAll lists every task for the admin view
func (s *TaskService) ListAll() ([]models.Task, error) {
	tasks, err := s.taskRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns a single task
func (s *TaskService) Get(id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// Update applies a partial update after re-verifying ownership. The role
// gate alone is not trusted: a buyer can only touch their own tasks.
func (s *TaskService) Update(id uint64, actorEmail string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if task.BuyerEmail != actorEmail {
		return nil, ErrNotTaskOwner
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Detail != nil {
		task.Detail = *input.Detail
	}
	if input.SubmissionInfo != nil {
		task.SubmissionInfo = *input.SubmissionInfo
	}
	if input.ImageURL != nil {
		task.ImageURL = *input.ImageURL
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes a task after re-verifying ownership
func (s *TaskService) Delete(id uint64, actorEmail string) error {
	task, err := s.Get(id)
	if err != nil {
		return err
	}

	if task.BuyerEmail != actorEmail {
		return ErrNotTaskOwner
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AdminDelete removes any task without an ownership check
func (s *TaskService) AdminDelete(id uint64) error {
	if err := s.taskRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Count counts every task record
func (s *TaskService) Count() (int64, error) {
	return s.taskRepo.Count()
}
