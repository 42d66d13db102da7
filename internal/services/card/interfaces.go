package card

import (
	"context"

	"celora/internal/models"
	"celora/internal/services/ledger"
	"celora/internal/services/risk"

	"github.com/shopspring/decimal"
)

// Service manages virtual card lifecycle and balance-affecting entry points.
type Service interface {
	CreateCard(ctx context.Context, userID uint, currency string) (*models.VirtualCard, error)
	GetCard(ctx context.Context, cardID, userID uint) (*models.VirtualCard, error)
	ListCards(ctx context.Context, userID uint) ([]*models.VirtualCard, error)

	UpdateCardStatus(ctx context.Context, cardID, userID uint, newStatus, reason string) (*CardOperationResult, error)
	SuspendForRisk(ctx context.Context, cardID uint, reason string) error

	CreateTransaction(ctx context.Context, userID, cardID uint, input CreateTransactionInput) (*models.Transaction, *risk.Assessment, error)
	AddFunds(ctx context.Context, cardID uint, amount decimal.Decimal, currency, sourceType string) (*AddFundsResult, error)
}

// Poster is the posting pipeline surface the card service depends on.
type Poster interface {
	Post(ctx context.Context, req ledger.PostRequest) (*models.Transaction, *risk.Assessment, error)
}
