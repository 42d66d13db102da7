package topup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"celora/internal/logger"
	"celora/internal/models"
	"celora/internal/repositories"
	"celora/internal/services/funding"
	"celora/internal/services/ledger"
	"celora/internal/services/risk"
	"celora/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pin lockout policy on funding links.
const (
	maxPinAttempts   = 5
	pinLockoutPeriod = 5 * time.Minute
)

// Service coordinates cross-platform conversions and auto top-ups. A
// triggered top-up re-enters the ledger and risk pipeline like any other
// transaction; the coordinator never adjusts balances itself.
type Service interface {
	ShouldTriggerAutoTopup(link *models.CardWalletLink, cardBalance, sourceBalance decimal.Decimal) Decision
	EvaluateCard(ctx context.Context, cardID uint, pin string) (*models.CrossPlatformTransaction, error)
}

// Poster is the ledger posting surface the coordinator depends on.
type Poster interface {
	Post(ctx context.Context, req ledger.PostRequest) (*models.Transaction, *risk.Assessment, error)
}

type service struct {
	cards  repositories.CardRepository
	links  repositories.LinkRepository
	source funding.Source
	poster Poster
	config Config
	log    *logger.Logger
}

// NewService creates a new auto-topup coordinator.
func NewService(
	cards repositories.CardRepository,
	links repositories.LinkRepository,
	source funding.Source,
	poster Poster,
	config Config,
	log *logger.Logger,
) Service {
	if cards == nil {
		panic("card repository is required")
	}
	if links == nil {
		panic("link repository is required")
	}
	if source == nil {
		panic("funding source is required")
	}
	if poster == nil {
		panic("poster is required")
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &service{
		cards:  cards,
		links:  links,
		source: source,
		poster: poster,
		config: config,
		log:    log,
	}
}

// ShouldTriggerAutoTopup decides whether a top-up fires. Every gate that
// fails reports why; the decision is pure and side-effect free.
func (s *service) ShouldTriggerAutoTopup(link *models.CardWalletLink, cardBalance, sourceBalance decimal.Decimal) Decision {
	if link == nil || !link.AutoTopupEnabled {
		return Decision{Should: false, Reason: "auto top-up is disabled"}
	}
	if link.Threshold.Sign() <= 0 || link.TopupAmount.Sign() <= 0 {
		return Decision{Should: false, Reason: "auto top-up threshold or amount not configured"}
	}
	if cardBalance.GreaterThanOrEqual(link.Threshold) {
		return Decision{Should: false, Reason: "card balance above threshold"}
	}
	if sourceBalance.LessThan(link.TopupAmount) {
		return Decision{Should: false, Reason: "funding source balance below top-up amount"}
	}
	return Decision{Should: true, Amount: link.TopupAmount}
}

// EvaluateCard observes the post-transaction balance and runs a top-up when
// the decision gates pass. Returns nil when nothing fired. A pin-protected
// link must be unlocked with the correct pin before any funds move.
func (s *service) EvaluateCard(ctx context.Context, cardID uint, pin string) (*models.CrossPlatformTransaction, error) {
	link, err := s.links.GetLinkByCardID(cardID)
	if err != nil {
		if errors.Is(err, repositories.ErrLinkNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}

	if err := s.authorizeLink(link, pin); err != nil {
		return nil, err
	}

	card, err := s.cards.GetByID(cardID)
	if err != nil {
		return nil, err
	}

	sourceBalance, _, err := s.source.Balance(ctx, link)
	if err != nil {
		// Default-deny: an unreachable funding source never triggers a move.
		if errors.Is(err, funding.ErrUpstreamTimeout) {
			return nil, fmt.Errorf("%w: funds held for review", ErrUpstreamTimeout)
		}
		return nil, err
	}

	decision := s.ShouldTriggerAutoTopup(link, card.Balance, sourceBalance)
	if !decision.Should {
		s.log.Debugw("auto top-up skipped", "card_id", cardID, "reason", decision.Reason)
		return nil, nil
	}

	return s.convert(ctx, link, card, decision.Amount)
}

// authorizeLink verifies the funding link pin with lockout protection. A
// successful verification resets the failed-attempt counter; the fifth
// consecutive failure locks the link.
func (s *service) authorizeLink(link *models.CardWalletLink, pin string) error {
	if link.PinHash == "" {
		return nil
	}

	now := time.Now()
	if link.Locked(now) {
		return ErrLinkLocked
	}

	if utils.VerifyPin(pin, link.PinHash) {
		if link.FailedAttempts != 0 || link.LockoutUntil != nil {
			link.FailedAttempts = 0
			link.LockoutUntil = nil
			if err := s.links.UpdateLink(link); err != nil {
				s.log.Warnw("failed to reset pin attempts", "link_id", link.ID, "error", err)
			}
		}
		return nil
	}

	link.FailedAttempts++
	s.log.Warnw("failed pin attempt on funding link", "link_id", link.ID, "attempts", link.FailedAttempts)

	locked := link.FailedAttempts >= maxPinAttempts
	if locked {
		until := now.Add(pinLockoutPeriod)
		link.LockoutUntil = &until
		s.log.Warnw("funding link locked", "link_id", link.ID, "until", until)
	}
	if err := s.links.UpdateLink(link); err != nil {
		s.log.Errorw("failed to record pin attempt", "link_id", link.ID, "error", err)
	}

	if locked {
		return ErrLinkLocked
	}
	return ErrPinInvalid
}

// convert records the cross-platform move, charges the funding source and
// posts the resulting top-up through the risk-gated pipeline.
func (s *service) convert(ctx context.Context, link *models.CardWalletLink, card *models.VirtualCard, amount decimal.Decimal) (*models.CrossPlatformTransaction, error) {
	rate := exchangeRate(link.FundingCurrency, card.Currency)
	fee := amount.Mul(s.config.FeePercent).Round(4)
	target := amount.Sub(fee).Mul(rate).Round(4)

	cx := &models.CrossPlatformTransaction{
		Reference:      "CX-" + uuid.New().String(),
		LinkID:         link.ID,
		CardID:         card.ID,
		UserID:         link.UserID,
		SourceCurrency: link.FundingCurrency,
		TargetCurrency: card.Currency,
		SourceAmount:   amount,
		TargetAmount:   target,
		ExchangeRate:   rate,
		Fee:            fee,
		Status:         models.ConversionStatusPending,
	}
	if err := s.links.CreateConversion(cx); err != nil {
		return nil, err
	}

	chargeRef, err := s.source.Charge(ctx, link, amount, link.FundingCurrency)
	if err != nil {
		s.fail(cx, fmt.Sprintf("funding charge failed: %v", err))
		return cx, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	if uerr := s.links.UpdateConversionStatus(cx.ID, models.ConversionStatusProcessing, ""); uerr != nil {
		s.log.Warnw("failed to mark conversion processing", "reference", cx.Reference, "error", uerr)
	}
	cx.Status = models.ConversionStatusProcessing

	tx, _, err := s.poster.Post(ctx, ledger.PostRequest{
		CardID:      card.ID,
		UserID:      link.UserID,
		Type:        models.TransactionTypeTopup,
		Amount:      target,
		Currency:    card.Currency,
		Description: "auto top-up from linked wallet",
		Metadata: map[string]interface{}{
			"conversion_ref": cx.Reference,
			"charge_ref":     chargeRef,
			"exchange_rate":  rate.String(),
			"fee":            fee.String(),
		},
		Source:      link.FundingWalletRef,
		Destination: card.MaskedNumber,
		Fee:         fee,
	})
	if err != nil {
		s.fail(cx, fmt.Sprintf("top-up posting rejected: %v", err))
		return cx, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	if tx.Status != models.TransactionStatusPosted {
		// Held for review: the conversion stays in processing until an
		// operator clears or rejects the underlying transaction.
		return cx, nil
	}

	if uerr := s.links.UpdateConversionStatus(cx.ID, models.ConversionStatusCompleted, ""); uerr != nil {
		s.log.Warnw("failed to mark conversion completed", "reference", cx.Reference, "error", uerr)
	}
	cx.Status = models.ConversionStatusCompleted
	return cx, nil
}

func (s *service) fail(cx *models.CrossPlatformTransaction, reason string) {
	if err := s.links.UpdateConversionStatus(cx.ID, models.ConversionStatusFailed, reason); err != nil {
		s.log.Errorw("failed to mark conversion failed", "reference", cx.Reference, "error", err)
	}
	cx.Status = models.ConversionStatusFailed
	cx.FailureReason = reason
}
