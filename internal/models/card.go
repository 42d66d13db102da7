package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Card statuses
const (
	CardStatusActive    = "active"
	CardStatusSuspended = "suspended"
	CardStatusClosed    = "closed"
)

// VirtualCard represents an issued virtual spending card. Balance is a
// cached value reconciled against the transaction log; it is never negative.
type VirtualCard struct {
	ID           uint            `gorm:"primarykey"`
	UserID       uint            `gorm:"not null;index"`
	MaskedNumber string          `gorm:"not null"`
	Balance      decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`
	Currency     string          `gorm:"size:3;not null;default:'USD'"`
	Status       string          `gorm:"not null;default:'active'"`
	StatusReason string          `gorm:"default:''"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c *VirtualCard) BeforeCreate(tx *gorm.DB) error {
	// Cards always start active with a zero balance
	c.Balance = decimal.Zero
	if c.Status == "" {
		c.Status = CardStatusActive
	}
	return nil
}

// UsableForPurchase reports whether new purchases may be made on the card.
func (c *VirtualCard) UsableForPurchase() bool {
	return c.Status == CardStatusActive && c.Balance.IsPositive()
}

// MaskCardNumber keeps only the last four digits visible.
func MaskCardNumber(number string) string {
	digits := make([]rune, 0, len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return "****-****-****-" + string(digits[len(digits)-4:])
}
