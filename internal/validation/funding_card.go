// Package validation holds input validation helpers shared by services.
package validation

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// LuhnValid reports whether the card number passes the Luhn checksum.
func LuhnValid(cardNumber string) bool {
	var digits []int
	for _, r := range cardNumber {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) == 0 {
		return false
	}

	checksum := 0
	parity := len(digits) % 2
	for i, d := range digits {
		if i%2 == parity {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		checksum += d
	}
	return checksum%10 == 0
}

// ValidateExpiry accepts MM/YY or MM/YYYY and rejects past dates.
func ValidateExpiry(expiry string) error {
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 {
		return errors.New("expiry must be in MM/YY or MM/YYYY format")
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return errors.New("invalid expiry month")
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return errors.New("invalid expiry year")
	}
	if year < 100 {
		year += 2000
	}

	now := time.Now()
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return errors.New("card has expired")
	}
	return nil
}
