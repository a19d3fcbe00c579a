package models

import (
	"time"

	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "Pending"
	SubmissionApproved SubmissionStatus = "Approved"
	SubmissionRejected SubmissionStatus = "Rejected"
)

// Submission is a worker's claim of completed work against a task.
// TaskTitle, BuyerEmail and PayableAmount are snapshotted at submission
// time so later task edits never change what a worker is owed.
type Submission struct {
	ID            uint64           `gorm:"primarykey" json:"id"`
	TaskID        uint64           `gorm:"index;not null" json:"task_id"`
	TaskTitle     string           `gorm:"not null" json:"task_title"`
	PayableAmount int64            `gorm:"not null" json:"payable_amount"`
	Details       string           `gorm:"type:text" json:"details"`
	WorkerEmail   string           `gorm:"type:varchar(255);index;not null" json:"worker_email"`
	WorkerName    string           `gorm:"type:varchar(255)" json:"worker_name"`
	BuyerEmail    string           `gorm:"type:varchar(255);index;not null" json:"buyer_email"`
	Status        SubmissionStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
}
