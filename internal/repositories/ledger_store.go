package repositories

import (
	"fmt"

	"celora/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerStore commits a posting as one atomic unit: the transaction status
// flip and the cached balance adjustment succeed or fail together. The
// balance write is conditional on the previously read value so concurrent
// postings against the same card serialize; the loser sees
// ErrBalanceConflict and must re-read.
type LedgerStore interface {
	PostTransaction(txID, cardID uint, expectedBalance, newBalance decimal.Decimal) error
	ReverseTransaction(txID, cardID uint, expectedBalance, newBalance decimal.Decimal) error
}

type ledgerStore struct {
	db *gorm.DB
}

func NewLedgerStore(db *gorm.DB) LedgerStore {
	return &ledgerStore{db: db}
}

func (s *ledgerStore) PostTransaction(txID, cardID uint, expectedBalance, newBalance decimal.Decimal) error {
	return s.flip(txID, cardID, expectedBalance, newBalance,
		models.TransactionStatusPending, models.TransactionStatusPosted)
}

func (s *ledgerStore) ReverseTransaction(txID, cardID uint, expectedBalance, newBalance decimal.Decimal) error {
	return s.flip(txID, cardID, expectedBalance, newBalance,
		models.TransactionStatusPosted, models.TransactionStatusReversed)
}

func (s *ledgerStore) flip(txID, cardID uint, expectedBalance, newBalance decimal.Decimal, fromStatus, toStatus string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.VirtualCard{}).
			Where("id = ? AND balance = ?", cardID, expectedBalance).
			Update("balance", newBalance)
		if result.Error != nil {
			return fmt.Errorf("failed to update balance: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrBalanceConflict
		}

		result = tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", txID, fromStatus).
			Update("status", toStatus)
		if result.Error != nil {
			return fmt.Errorf("failed to post transaction: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTransactionNotFound
		}
		return nil
	})
}
