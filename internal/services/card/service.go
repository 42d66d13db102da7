package card

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"celora/internal/logger"
	"celora/internal/models"
	"celora/internal/repositories"
	"celora/internal/repositories/cache"
	"celora/internal/services/ledger"
	"celora/internal/services/risk"

	"github.com/shopspring/decimal"
)

// generateCardNumber produces a 16-digit reference for masking. A real
// issuer BIN range is an external concern.
func generateCardNumber() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "0000000000000000"
	}
	digits := make([]byte, 16)
	for i, v := range b {
		digits[i] = '0' + v%10
	}
	return string(digits)
}

type service struct {
	repo    repositories.CardRepository
	cache   *cache.CacheService
	poster  Poster
	auditor ledger.Auditor
	config  Config
	log     *logger.Logger
}

// NewService creates a new card service.
func NewService(
	repo repositories.CardRepository,
	cacheSvc *cache.CacheService,
	poster Poster,
	auditor ledger.Auditor,
	config Config,
	log *logger.Logger,
) Service {
	if repo == nil {
		panic("card repository is required")
	}
	if poster == nil {
		panic("poster is required")
	}
	if auditor == nil {
		panic("auditor is required")
	}
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = "USD"
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &service{
		repo:    repo,
		cache:   cacheSvc,
		poster:  poster,
		auditor: auditor,
		config:  config,
		log:     log,
	}
}

func (s *service) CreateCard(ctx context.Context, userID uint, currency string) (*models.VirtualCard, error) {
	if currency == "" {
		currency = s.config.DefaultCurrency
	}
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}

	card := &models.VirtualCard{
		UserID:       userID,
		MaskedNumber: models.MaskCardNumber(generateCardNumber()),
		Currency:     currency,
		Status:       models.CardStatusActive,
	}
	if err := s.repo.Create(card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	s.auditor.Record(ctx, userID, "card", fmt.Sprint(card.ID), "created",
		nil,
		map[string]interface{}{"status": card.Status, "currency": card.Currency},
		nil,
	)
	return card, nil
}

func (s *service) GetCard(ctx context.Context, cardID, userID uint) (*models.VirtualCard, error) {
	if s.cache != nil {
		if card, err := s.cache.GetCard(ctx, cardID); err == nil {
			if card.UserID != userID {
				return nil, ErrNotOwner
			}
			return card, nil
		}
	}

	card, err := s.loadOwned(cardID, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheCard(ctx, card); err != nil {
			s.log.Debugw("failed to cache card", "card_id", cardID, "error", err)
		}
	}
	return card, nil
}

func (s *service) ListCards(ctx context.Context, userID uint) ([]*models.VirtualCard, error) {
	cards, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// UpdateCardStatus applies a status transition on behalf of the owner.
func (s *service) UpdateCardStatus(ctx context.Context, cardID, userID uint, newStatus, reason string) (*CardOperationResult, error) {
	card, err := s.loadOwned(cardID, userID)
	if err != nil {
		return nil, err
	}

	if err := ValidateStatusTransition(card.Status, newStatus); err != nil {
		return nil, err
	}

	previous := card.Status
	if err := s.repo.UpdateStatus(cardID, newStatus, reason); err != nil {
		return nil, fmt.Errorf("failed to update card status: %w", err)
	}
	s.invalidate(ctx, cardID)

	result := newOperationResult(previous, newStatus, reason)
	result.CardID = cardID

	s.auditor.Record(ctx, userID, "card", fmt.Sprint(cardID), "status_changed",
		map[string]interface{}{"status": previous},
		map[string]interface{}{"status": newStatus},
		map[string]interface{}{"reason": reason},
	)
	return result, nil
}

// SuspendForRisk is the automatic escalation path used by the ledger when
// the risk engine recommends a high severity block. Already-suspended and
// closed cards are left alone.
func (s *service) SuspendForRisk(ctx context.Context, cardID uint, reason string) error {
	card, err := s.repo.GetByID(cardID)
	if err != nil {
		return err
	}
	if err := ValidateStatusTransition(card.Status, models.CardStatusSuspended); err != nil {
		return nil
	}
	if err := s.repo.UpdateStatus(cardID, models.CardStatusSuspended, reason); err != nil {
		return fmt.Errorf("failed to suspend card: %w", err)
	}
	s.invalidate(ctx, cardID)

	s.auditor.Record(ctx, card.UserID, "card", fmt.Sprint(cardID), "auto_suspended",
		map[string]interface{}{"status": card.Status},
		map[string]interface{}{"status": models.CardStatusSuspended},
		map[string]interface{}{"reason": reason},
	)
	return nil
}

// CreateTransaction runs a transaction through the risk-gated posting
// pipeline on behalf of the owning user.
func (s *service) CreateTransaction(ctx context.Context, userID, cardID uint, input CreateTransactionInput) (*models.Transaction, *risk.Assessment, error) {
	if _, err := s.loadOwned(cardID, userID); err != nil {
		return nil, nil, err
	}

	return s.poster.Post(ctx, ledger.PostRequest{
		CardID:           cardID,
		UserID:           userID,
		Type:             input.Type,
		Amount:           input.Amount,
		Currency:         input.Currency,
		Description:      input.Description,
		MerchantName:     input.MerchantName,
		MerchantCategory: input.MerchantCategory,
		Metadata:         input.Metadata,
		Source:           input.Source,
		Destination:      input.Destination,
		Fee:              input.Fee,
		Confirmation:     input.Confirmation,
	})
}

// AddFunds credits the card through the posting pipeline. It fails closed
// with the exact "Amount must be positive" reason for non-positive amounts.
func (s *service) AddFunds(ctx context.Context, cardID uint, amount decimal.Decimal, currency, sourceType string) (*AddFundsResult, error) {
	if amount.Sign() <= 0 {
		return &AddFundsResult{Success: false, Reason: AmountMustBePositive}, nil
	}

	card, err := s.repo.GetByID(cardID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	tx, _, err := s.poster.Post(ctx, ledger.PostRequest{
		CardID:      cardID,
		UserID:      card.UserID,
		Type:        models.TransactionTypeTopup,
		Amount:      amount,
		Currency:    currency,
		Description: fmt.Sprintf("Funds added via %s", sourceType),
		Metadata:    map[string]interface{}{"source_type": sourceType},
		Source:      sourceType,
		Destination: card.MaskedNumber,
	})
	if err != nil {
		return &AddFundsResult{Success: false, Reason: err.Error()}, nil
	}
	if tx.Status != models.TransactionStatusPosted {
		return &AddFundsResult{
			Success:       false,
			TransactionID: tx.Reference,
			Reason:        "transaction held for review",
		}, nil
	}

	fresh, err := s.repo.GetByID(cardID)
	if err != nil {
		return nil, err
	}
	newBalance := fresh.Balance
	return &AddFundsResult{
		Success:       true,
		TransactionID: tx.Reference,
		NewBalance:    &newBalance,
	}, nil
}

func (s *service) loadOwned(cardID, userID uint) (*models.VirtualCard, error) {
	card, err := s.repo.GetByID(cardID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	if card.UserID != userID {
		return nil, ErrNotOwner
	}
	return card, nil
}

func (s *service) invalidate(ctx context.Context, cardID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCard(ctx, cardID); err != nil {
		s.log.Debugw("failed to invalidate card cache", "card_id", cardID, "error", err)
	}
}
