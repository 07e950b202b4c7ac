package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	portssvc "github.com/promoflow/campaign_settings/internal/core/ports/services"
	"github.com/promoflow/campaign_settings/internal/core/schema"
)

// currencyScale is the stored precision of multicurrency amounts.
const currencyScale = 4

// MulticurrencySyncer keeps canonical/local field pairs numerically consistent
// via the exchange rate effective on the staging date.
type MulticurrencySyncer struct {
	rates portssvc.RateProvider
}

// NewMulticurrencySyncer creates a new MulticurrencySyncer.
func NewMulticurrencySyncer(rates portssvc.RateProvider) *MulticurrencySyncer {
	return &MulticurrencySyncer{rates: rates}
}

// SyncedPair is the derived counterpart of one staged multicurrency edit.
type SyncedPair struct {
	Field string
	Value decimal.Decimal
}

// Sync returns the counterpart update implied by setting field to value, or nil
// when field is not part of a multicurrency pair. Direction is inferred from
// which half was set: canonical multiplies by the rate, local divides.
// Results are rounded half-even to 4 decimal places.
//
// Nil and zero amounts skip conversion; the counterpart stays untouched.
func (s *MulticurrencySyncer) Sync(ctx context.Context, sch schema.EntitySchema, field string, value any, currencyCode string, date time.Time) (*SyncedPair, error) {
	counterpart, ok := sch.Counterpart(field)
	if !ok {
		return nil, nil
	}
	amount, ok := schema.AsDecimal(value)
	if !ok || amount.IsZero() {
		return nil, nil
	}

	rate, err := s.rates.RateOn(ctx, currencyCode, date)
	if err != nil {
		return nil, fmt.Errorf("failed to look up exchange rate for %s: %w", currencyCode, err)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("exchange rate for %s on %s is not positive", currencyCode, date.Format("2006-01-02"))
	}

	var converted decimal.Decimal
	if sch.IsLocal(field) {
		converted = amount.Div(rate)
	} else {
		converted = amount.Mul(rate)
	}

	return &SyncedPair{
		Field: counterpart,
		Value: converted.RoundBank(currencyScale),
	}, nil
}
