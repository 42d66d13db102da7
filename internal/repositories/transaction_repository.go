package repositories

import (
	"context"

	"celora/internal/models"
)

// TransactionRepository defines the append-only transaction log operations.
// Rows are never deleted; reversal and failure are status flips.
type TransactionRepository interface {
	Create(tx *models.Transaction) error
	GetByID(id uint) (*models.Transaction, error)
	GetByCardID(cardID uint) ([]models.Transaction, error)
	GetByCardIDPaged(ctx context.Context, cardID uint, limit, offset int) ([]models.Transaction, error)
	UpdateStatus(id uint, status string) error
	AttachRiskAssessment(id uint, score, confidence float64, action string, reasons []string) error
}
