package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "****-****-****-0366", MaskCardNumber("4532015112830366"))
	assert.Equal(t, "****-****-****-0366", MaskCardNumber("4532-0151-1283-0366"))
	assert.Equal(t, "1234", MaskCardNumber("1234"))
	assert.Equal(t, "", MaskCardNumber(""))
}

func TestUsableForPurchase(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		balance string
		want    bool
	}{
		{"active with funds", CardStatusActive, "10", true},
		{"active zero balance", CardStatusActive, "0", false},
		{"suspended with funds", CardStatusSuspended, "10", false},
		{"closed with funds", CardStatusClosed, "10", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := VirtualCard{Status: tt.status, Balance: decimal.RequireFromString(tt.balance)}
			assert.Equal(t, tt.want, c.UsableForPurchase())
		})
	}
}

func TestTransactionSettled(t *testing.T) {
	assert.True(t, (&Transaction{Status: TransactionStatusPosted}).Settled())
	assert.False(t, (&Transaction{Status: TransactionStatusPending}).Settled())
	assert.False(t, (&Transaction{Status: TransactionStatusReversed}).Settled())
	assert.False(t, (&Transaction{Status: TransactionStatusFailed}).Settled())
}
