package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate from the canonical currency (USD)
// into CurrencyCode, effective from DateEffective. Lookups are deterministic
// for a given (date, currency) so historical conversions stay reproducible.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"` // Primary Key (UUID)
	CurrencyCode   string          `json:"currencyCode"`   // e.g. "EUR"
	Rate           decimal.Decimal `json:"rate"`
	DateEffective  time.Time       `json:"dateEffective"`
	AuditFields
}
