package models

import "time"

// PaymentOffer is a purchasable coin package shown to buyers.
type PaymentOffer struct {
	ID      uint64  `gorm:"primarykey" json:"id"`
	Dollars float64 `gorm:"not null" json:"dollars"`
	Coins   int64   `gorm:"not null" json:"coins"`
}

// PaymentRecord is a confirmed purchase. Rows are immutable once written.
type PaymentRecord struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	BuyerEmail string    `gorm:"type:varchar(255);index;not null" json:"email"`
	Dollars    float64   `gorm:"not null" json:"dollars"`
	Coins      int64     `gorm:"not null" json:"coins"`
	CreatedAt  time.Time `json:"time"`
}
