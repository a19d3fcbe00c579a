package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleBuyer  Role = "Buyer"
	RoleWorker Role = "Worker"
	RoleAdmin  Role = "Admin"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleWorker, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name      string         `gorm:"type:varchar(255)" json:"name"`
	PhotoURL  string         `gorm:"type:varchar(512)" json:"photo_url"`
	Role      Role           `gorm:"type:varchar(20);not null" json:"role"`
	Coins     int64          `gorm:"not null;default:0" json:"coins"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
