package repository

import (
	"github.com/taskhive/taskhive-api/internal/models"
	"gorm.io/gorm"
)

// GormPaymentRepository is a GORM implementation of PaymentRepository
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &GormPaymentRepository{db: db}
}

// ListOffers lists the purchasable coin packages
func (r *GormPaymentRepository) ListOffers() ([]models.PaymentOffer, error) {
	var offers []models.PaymentOffer
	if err := r.db.Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// FindOfferByID finds a coin package by ID
func (r *GormPaymentRepository) FindOfferByID(id uint64) (*models.PaymentOffer, error) {
	var offer models.PaymentOffer
	if err := r.db.First(&offer, id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// CreateRecordWithCredit persists the confirmed payment and credits the
// purchased coins in one transaction.
func (r *GormPaymentRepository) CreateRecordWithCredit(record *models.PaymentRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		credit := tx.Model(&models.User{}).
			Where("email = ?", record.BuyerEmail).
			Update("coins", gorm.Expr("coins + ?", record.Coins))
		if credit.Error != nil {
			return credit.Error
		}
		if credit.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

// ListRecordsByBuyer lists a buyer's confirmed payments, newest first
func (r *GormPaymentRepository) ListRecordsByBuyer(email string) ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	err := r.db.Where("buyer_email = ?", email).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SumDollarsByBuyer sums the dollars a buyer has paid in
func (r *GormPaymentRepository) SumDollarsByBuyer(email string) (float64, error) {
	var total float64
	err := r.db.Model(&models.PaymentRecord{}).
		Where("buyer_email = ?", email).
		Select("COALESCE(SUM(dollars), 0)").
		Scan(&total).Error
	return total, err
}

// SumCoins sums the coins credited across all confirmed payments
func (r *GormPaymentRepository) SumCoins() (int64, error) {
	var total int64
	err := r.db.Model(&models.PaymentRecord{}).
		Select("COALESCE(SUM(coins), 0)").
		Scan(&total).Error
	return total, err
}
