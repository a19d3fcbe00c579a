package models

import (
	"time"

	"gorm.io/gorm"
)

// Task is a unit of work posted by a buyer. It stays visible to workers
// while RequiredWorkers is above zero.
type Task struct {
	ID              uint64         `gorm:"primarykey" json:"id"`
	Title           string         `gorm:"not null" json:"title"`
	Detail          string         `gorm:"type:text" json:"detail"`
	RequiredWorkers int            `gorm:"not null" json:"required_workers"`
	PayableAmount   int64          `gorm:"not null" json:"payable_amount"`
	SubmissionInfo  string         `gorm:"type:text" json:"submission_info"`
	ImageURL        string         `gorm:"type:varchar(512)" json:"image_url"`
	CompletionDate  *time.Time     `json:"completion_date"`
	BuyerEmail      string         `gorm:"type:varchar(255);index;not null" json:"buyer_email"`
	BuyerName       string         `gorm:"type:varchar(255)" json:"buyer_name"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
