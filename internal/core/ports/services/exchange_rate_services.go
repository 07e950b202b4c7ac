package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/promoflow/campaign_settings/internal/core/domain"
	"github.com/promoflow/campaign_settings/internal/dto"
)

// RateProvider returns the exchange rate from the canonical currency into
// currencyCode effective on date. It must be deterministic for a given
// (date, currency) so historical conversions are reproducible.
type RateProvider interface {
	RateOn(ctx context.Context, currencyCode string, date time.Time) (decimal.Decimal, error)
}

// ExchangeRateSvcFacade combines rate lookup and rate management.
type ExchangeRateSvcFacade interface {
	RateProvider

	// CreateExchangeRate registers a new rate row.
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
}
