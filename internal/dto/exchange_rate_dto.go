package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest registers the conversion rate from the canonical
// currency into CurrencyCode, effective from DateEffective.
type CreateExchangeRateRequest struct {
	CurrencyCode  string          `json:"currencyCode" validate:"required,len=3,uppercase"`
	Rate          decimal.Decimal `json:"rate" validate:"required"`
	DateEffective time.Time       `json:"dateEffective" validate:"required"`
}
