package utils

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ConvertToDecimal parses a money string strictly; empty strings are an error
// rather than silently becoming zero.
func ConvertToDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}

	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}

	return dec, nil
}
