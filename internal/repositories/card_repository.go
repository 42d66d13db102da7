package repositories

import (
	"errors"

	"celora/internal/models"
)

var (
	ErrCardNotFound        = errors.New("card not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrLinkNotFound        = errors.New("card wallet link not found")
	ErrBalanceConflict     = errors.New("card balance changed concurrently")
)

// CardRepository defines card-related database operations. Balance writes
// are not exposed here; they happen inside the LedgerStore flip so the
// cached balance and the transaction log commit together.
type CardRepository interface {
	Create(card *models.VirtualCard) error
	GetByID(id uint) (*models.VirtualCard, error)
	GetByUserID(userID uint) ([]*models.VirtualCard, error)
	Update(card *models.VirtualCard) error
	UpdateStatus(cardID uint, status, reason string) error

	// ListActiveIDs returns the ids of all non-closed cards, for the
	// reconciliation sweep.
	ListActiveIDs() ([]uint, error)
}
