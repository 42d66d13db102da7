package repositories

import (
	"context"
	"fmt"

	"celora/internal/models"

	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(tx *models.Transaction) error {
	if err := r.db.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.First(&tx, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) GetByCardID(cardID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := r.db.Where("card_id = ?", cardID).Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) GetByCardIDPaged(ctx context.Context, cardID uint, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) UpdateStatus(id uint, status string) error {
	result := r.db.Model(&models.Transaction{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) AttachRiskAssessment(id uint, score, confidence float64, action string, reasons []string) error {
	meta := make([]interface{}, len(reasons))
	for i, reason := range reasons {
		meta[i] = reason
	}
	result := r.db.Model(&models.Transaction{}).Where("id = ?", id).Updates(map[string]interface{}{
		"risk_score":      score,
		"risk_confidence": confidence,
		"risk_action":     action,
		"risk_reasons":    models.JSON{"reasons": meta},
	})
	if result.Error != nil {
		return fmt.Errorf("failed to attach risk assessment: %w", result.Error)
	}
	return nil
}

