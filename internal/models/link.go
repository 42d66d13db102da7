package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardWalletLink connects a virtual card to an external funding wallet.
// Auto-topup only fires when enabled, the card balance is below the
// threshold and the funding source can cover the configured amount.
type CardWalletLink struct {
	ID               uint   `gorm:"primarykey"`
	CardID           uint   `gorm:"uniqueIndex;not null"`
	UserID           uint   `gorm:"not null;index"`
	FundingWalletRef string `gorm:"not null"`
	FundingCurrency  string `gorm:"size:3;not null;default:'USD'"`
	FundingExpiry    string `gorm:"size:7"`

	AutoTopupEnabled bool            `gorm:"default:false"`
	Threshold        decimal.Decimal `gorm:"type:numeric(20,4);default:0"`
	TopupAmount      decimal.Decimal `gorm:"type:numeric(20,4);default:0"`

	// PIN protection on the funding link, pbkdf2 salted hash. Failed
	// attempts accumulate until a successful verification resets them;
	// too many in a row lock the link until LockoutUntil.
	PinHash        string
	FailedAttempts int `gorm:"default:0"`
	LockoutUntil   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Locked reports whether the link is under pin lockout at the given time.
func (l *CardWalletLink) Locked(now time.Time) bool {
	return l.LockoutUntil != nil && now.Before(*l.LockoutUntil)
}

// CrossPlatformTransaction statuses
const (
	ConversionStatusPending    = "pending"
	ConversionStatusProcessing = "processing"
	ConversionStatusCompleted  = "completed"
	ConversionStatusFailed     = "failed"
)

// CrossPlatformTransaction records a conversion between a funding source
// and a card, or wallet to wallet, with the rate and fee applied.
type CrossPlatformTransaction struct {
	ID             uint            `gorm:"primarykey"`
	Reference      string          `gorm:"uniqueIndex;not null"`
	LinkID         uint            `gorm:"not null;index"`
	CardID         uint            `gorm:"not null;index"`
	UserID         uint            `gorm:"not null;index"`
	SourceCurrency string          `gorm:"size:3;not null"`
	TargetCurrency string          `gorm:"size:3;not null"`
	SourceAmount   decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	TargetAmount   decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	ExchangeRate   decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Fee            decimal.Decimal `gorm:"type:numeric(20,4);default:0"`
	Status         string          `gorm:"not null;default:'pending'"`
	FailureReason  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
