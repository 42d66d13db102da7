package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"celora/internal/logger"
	"celora/internal/models"
	"celora/internal/repositories"
	"celora/internal/services/risk"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CacheInvalidator drops cached card state after a balance change.
type CacheInvalidator interface {
	InvalidateCard(ctx context.Context, cardID uint) error
}

type service struct {
	cards     repositories.CardRepository
	txs       repositories.TransactionRepository
	store     repositories.LedgerStore
	scorer    Scorer
	notifier  Notifier
	auditor   Auditor
	escalator StatusEscalator
	cache     CacheInvalidator
	metrics   MetricsCollector
	config    Config
	log       *logger.Logger
}

// NewService creates a new ledger service.
func NewService(
	cards repositories.CardRepository,
	txs repositories.TransactionRepository,
	store repositories.LedgerStore,
	scorer Scorer,
	notifier Notifier,
	auditor Auditor,
	cache CacheInvalidator,
	metrics MetricsCollector,
	config Config,
	log *logger.Logger,
) Service {
	if cards == nil {
		panic("card repository is required")
	}
	if txs == nil {
		panic("transaction repository is required")
	}
	if store == nil {
		panic("ledger store is required")
	}
	if scorer == nil {
		panic("scorer is required")
	}
	if notifier == nil {
		panic("notifier is required")
	}
	if auditor == nil {
		panic("auditor is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	if config.TopupCeiling.IsZero() {
		config.TopupCeiling = decimal.RequireFromString(DefaultTopupCeiling)
	}

	return &service{
		cards:    cards,
		txs:      txs,
		store:    store,
		scorer:   scorer,
		notifier: notifier,
		auditor:  auditor,
		cache:    cache,
		metrics:  metrics,
		config:   config,
		log:      log,
	}
}

// SetEscalator wires the card status escalator after construction.
func (s *service) SetEscalator(esc StatusEscalator) {
	s.escalator = esc
}

// ComputeBalance sums settled entries. Reversed rows and terminal-failed
// rows are compensated or never applied, and pending rows have not touched
// the cached balance yet, so none of them count. Pure and order-independent.
func (s *service) ComputeBalance(txs []models.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for i := range txs {
		if txs[i].Settled() {
			sum = sum.Add(txs[i].Amount)
		}
	}
	return sum
}

// ValidateTopup checks top-up policy against the card status and amount.
func (s *service) ValidateTopup(cardStatus string, amount decimal.Decimal) error {
	if cardStatus == models.CardStatusClosed {
		return fmt.Errorf("%w: card is closed", ErrInvalidOperation)
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidOperation)
	}
	if amount.GreaterThan(s.config.TopupCeiling) {
		return fmt.Errorf("%w: amount exceeds top-up ceiling of %s", ErrInvalidOperation, s.config.TopupCeiling)
	}
	return nil
}

// Reconcile compares the cached balance against the transaction log. The
// epsilon sits strictly below the smallest representable unit of the
// currency, so exact-integer currencies cannot false-negative.
func (s *service) Reconcile(cached decimal.Decimal, currency string, txs []models.Transaction) ReconcileResult {
	expected := s.ComputeBalance(txs)
	delta := expected.Sub(cached)
	eps := epsilonFor(currency)
	return ReconcileResult{
		Expected: expected,
		Cached:   cached,
		Delta:    delta,
		Epsilon:  eps,
		InSync:   delta.Abs().LessThan(eps),
	}
}

// ReconcileCard runs reconciliation against the stored log. A divergence is
// a reconciliation fault: logged at high severity and pushed to the
// operational alert path, but card usage is not blocked here.
func (s *service) ReconcileCard(ctx context.Context, cardID uint) (ReconcileResult, error) {
	card, err := s.cards.GetByID(cardID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return ReconcileResult{}, ErrCardNotFound
		}
		return ReconcileResult{}, err
	}

	txs, err := s.txs.GetByCardID(cardID)
	if err != nil {
		return ReconcileResult{}, err
	}

	result := s.Reconcile(card.Balance, card.Currency, txs)
	if !result.InSync {
		delta, _ := result.Delta.Float64()
		s.log.Errorw("reconciliation fault",
			"card_id", cardID,
			"cached", card.Balance.String(),
			"expected", result.Expected.String(),
			"delta", result.Delta.String(),
		)
		s.metrics.RecordReconciliationDelta(delta)
		s.notifier.ReconciliationFault(ctx, cardID, result.Delta)
	}
	return result, nil
}

// Post appends a pending transaction, runs it through risk scoring, and on
// clearance atomically flips it to posted while adjusting the cached card
// balance. Rejection leaves a terminal failed row and an untouched balance.
func (s *service) Post(ctx context.Context, req PostRequest) (*models.Transaction, *risk.Assessment, error) {
	if req.Amount.IsZero() {
		s.metrics.RecordError("post", "invalid_amount")
		return nil, nil, fmt.Errorf("%w: amount must be non-zero", ErrInvalidAmount)
	}

	card, err := s.cards.GetByID(req.CardID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, nil, ErrCardNotFound
		}
		return nil, nil, fmt.Errorf("failed to load card: %w", err)
	}

	if card.Status == models.CardStatusClosed {
		return nil, nil, ErrCardClosed
	}
	if req.Currency != "" && req.Currency != card.Currency {
		return nil, nil, fmt.Errorf("%w: got %s, card holds %s", ErrCurrencyMismatch, req.Currency, card.Currency)
	}

	if req.Amount.IsNegative() {
		if !card.UsableForPurchase() {
			return nil, nil, fmt.Errorf("%w: card is not usable for purchases", ErrInvalidOperation)
		}
		if card.Balance.Add(req.Amount).IsNegative() {
			return nil, nil, ErrInsufficientFunds
		}
	} else if req.Type == models.TransactionTypeTopup {
		if err := s.ValidateTopup(card.Status, req.Amount); err != nil {
			return nil, nil, err
		}
	}

	tx := &models.Transaction{
		Reference:        "TX-" + uuid.New().String(),
		CardID:           req.CardID,
		UserID:           req.UserID,
		Type:             req.Type,
		Amount:           req.Amount,
		Currency:         card.Currency,
		Status:           models.TransactionStatusPending,
		Description:      req.Description,
		MerchantName:     req.MerchantName,
		MerchantCategory: req.MerchantCategory,
		Metadata:         models.NewJSON(req.Metadata),
	}
	if err := s.txs.Create(tx); err != nil {
		s.metrics.RecordError("post", "append_failed")
		return nil, nil, err
	}

	now := time.Now().UTC()
	assessment := s.scorer.ScoreTransaction(risk.Event{
		Amount:       req.Amount,
		Fee:          req.Fee,
		Timestamp:    now,
		Source:       req.Source,
		Destination:  req.Destination,
		Confirmation: req.Confirmation,
	}, now)
	s.metrics.RecordRiskAction(string(assessment.Action))

	if err := s.txs.AttachRiskAssessment(tx.ID, assessment.Score, assessment.Confidence, string(assessment.Action), assessment.Reasons); err != nil {
		s.log.Warnw("failed to attach risk assessment", "transaction", tx.Reference, "error", err)
	}

	switch assessment.Action {
	case risk.ActionBlock:
		return s.reject(ctx, card, tx, assessment)
	case risk.ActionReview:
		// Held for review: row stays pending, balance untouched.
		s.notifier.SecurityAlert(ctx, req.UserID, tx.Reference, assessment)
		return tx, &assessment, nil
	}

	if err := s.commit(card, tx); err != nil {
		s.metrics.RecordError("post", "commit_failed")
		if uerr := s.txs.UpdateStatus(tx.ID, models.TransactionStatusFailed); uerr != nil {
			s.log.Errorw("failed to fail transaction after commit error", "transaction", tx.Reference, "error", uerr)
		}
		tx.Status = models.TransactionStatusFailed
		return tx, &assessment, err
	}
	tx.Status = models.TransactionStatusPosted

	s.invalidate(ctx, card.ID)
	amt, _ := req.Amount.Float64()
	s.metrics.RecordTransaction(req.Type, amt)
	s.auditor.Record(ctx, req.UserID, "transaction", tx.Reference, "posted",
		nil,
		map[string]interface{}{"status": tx.Status, "balance": card.Balance.String()},
		req.Metadata,
	)
	return tx, &assessment, nil
}

func (s *service) reject(ctx context.Context, card *models.VirtualCard, tx *models.Transaction, assessment risk.Assessment) (*models.Transaction, *risk.Assessment, error) {
	if err := s.txs.UpdateStatus(tx.ID, models.TransactionStatusFailed); err != nil {
		s.log.Errorw("failed to mark blocked transaction", "transaction", tx.Reference, "error", err)
	}
	tx.Status = models.TransactionStatusFailed

	s.notifier.SecurityAlert(ctx, tx.UserID, tx.Reference, assessment)
	s.auditor.Record(ctx, tx.UserID, "transaction", tx.Reference, "risk_blocked",
		nil,
		map[string]interface{}{"status": tx.Status},
		map[string]interface{}{"score": assessment.Score, "reasons": assessment.Reasons},
	)

	if s.escalator != nil && assessment.Score >= HighSeverityScore {
		if err := s.escalator.SuspendForRisk(ctx, card.ID, "high severity risk block"); err != nil {
			s.log.Errorw("failed to suspend card after risk block", "card_id", card.ID, "error", err)
		}
	}

	return tx, &assessment, fmt.Errorf("%w: %s", ErrRiskBlocked, strings.Join(assessment.Reasons, "; "))
}

// commit applies the balance adjustment and status flip as one unit. On a
// lost race it re-reads the card once and retries; a second loss surfaces
// as ErrConflict.
func (s *service) commit(card *models.VirtualCard, tx *models.Transaction) error {
	newBalance := card.Balance.Add(tx.Amount)
	if newBalance.IsNegative() {
		return ErrInsufficientFunds
	}

	err := s.store.PostTransaction(tx.ID, card.ID, card.Balance, newBalance)
	if err == nil {
		card.Balance = newBalance
		return nil
	}
	if !errors.Is(err, repositories.ErrBalanceConflict) {
		return err
	}

	fresh, rerr := s.cards.GetByID(card.ID)
	if rerr != nil {
		return rerr
	}
	newBalance = fresh.Balance.Add(tx.Amount)
	if newBalance.IsNegative() {
		return ErrInsufficientFunds
	}
	if err := s.store.PostTransaction(tx.ID, card.ID, fresh.Balance, newBalance); err != nil {
		if errors.Is(err, repositories.ErrBalanceConflict) {
			return ErrConflict
		}
		return err
	}
	card.Balance = newBalance
	return nil
}

// Reverse flips a posted transaction to reversed and compensates the cached
// balance. The original row is never deleted.
func (s *service) Reverse(ctx context.Context, transactionID, actorID uint, reason string) (*models.Transaction, error) {
	tx, err := s.txs.GetByID(transactionID)
	if err != nil {
		return nil, err
	}
	if tx.Status != models.TransactionStatusPosted {
		return nil, fmt.Errorf("%w: only posted transactions can be reversed", ErrInvalidOperation)
	}

	card, err := s.cards.GetByID(tx.CardID)
	if err != nil {
		return nil, err
	}

	newBalance := card.Balance.Sub(tx.Amount)
	if newBalance.IsNegative() {
		return nil, ErrInsufficientFunds
	}
	if err := s.store.ReverseTransaction(tx.ID, card.ID, card.Balance, newBalance); err != nil {
		if errors.Is(err, repositories.ErrBalanceConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}
	tx.Status = models.TransactionStatusReversed
	card.Balance = newBalance

	s.invalidate(ctx, card.ID)
	s.auditor.Record(ctx, actorID, "transaction", tx.Reference, "reversed",
		map[string]interface{}{"status": models.TransactionStatusPosted},
		map[string]interface{}{"status": tx.Status},
		map[string]interface{}{"reason": reason},
	)
	return tx, nil
}

func (s *service) invalidate(ctx context.Context, cardID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCard(ctx, cardID); err != nil {
		s.log.Warnw("failed to invalidate card cache", "card_id", cardID, "error", err)
	}
}

func epsilonFor(currency string) decimal.Decimal {
	exp, ok := currencyExponents[currency]
	if !ok {
		exp = defaultCurrencyExponent
	}
	return decimal.New(1, -(exp + 1))
}
