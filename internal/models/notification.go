package models

import "time"

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

type Notification struct {
	ID          uint64             `gorm:"primarykey" json:"id"`
	Message     string             `gorm:"type:text;not null" json:"message"`
	ToEmail     string             `gorm:"type:varchar(255);index;not null" json:"to_email"`
	ActionRoute string             `gorm:"type:varchar(255)" json:"action_route"`
	Status      NotificationStatus `gorm:"type:varchar(10);not null;default:'unread'" json:"status"`
	CreatedAt   time.Time          `json:"time"`
	UpdatedAt   time.Time          `json:"-"`
}
