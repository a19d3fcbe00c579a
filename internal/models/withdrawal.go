package models

import "time"

// Withdrawal is a worker's pending request to cash out coins. Records
// exist only until an admin approves them; approval removes the row and
// deducts the coins in the same transaction.
type Withdrawal struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	WorkerEmail string    `gorm:"type:varchar(255);index;not null" json:"worker_email"`
	WorkerName  string    `gorm:"type:varchar(255)" json:"worker_name"`
	Coins       int64     `gorm:"not null" json:"coins"`
	Dollars     float64   `gorm:"not null" json:"dollars"`
	CreatedAt   time.Time `json:"created_at"`
}
