package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/promoflow/campaign_settings/internal/apperrors"
	"github.com/promoflow/campaign_settings/internal/core/domain"
	portsrepo "github.com/promoflow/campaign_settings/internal/core/ports/repositories"
	portssvc "github.com/promoflow/campaign_settings/internal/core/ports/services"
	"github.com/promoflow/campaign_settings/internal/dto"
	"github.com/promoflow/campaign_settings/internal/logging"
)

// canonicalCurrency is the currency every rate converts from.
const canonicalCurrency = "USD"

// exchangeRateService provides rate management and the deterministic
// (date, currency) → rate lookup the multicurrency synchronizer depends on.
type exchangeRateService struct {
	rateRepo portsrepo.ExchangeRateRepositoryFacade
	validate *validator.Validate
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		rateRepo: rateRepo,
		validate: validator.New(),
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateExchangeRate handles the creation of a new exchange rate.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	logger := logging.FromCtx(ctx)

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if strings.ToUpper(req.CurrencyCode) == canonicalCurrency {
		return nil, fmt.Errorf("%w: %s is the canonical currency and needs no rate", apperrors.ErrValidation, canonicalCurrency)
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		CurrencyCode:   strings.ToUpper(req.CurrencyCode),
		Rate:           req.Rate,
		DateEffective:  req.DateEffective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		logger.Error("Failed to save exchange rate", "currency", rate.CurrencyCode, "error", err)
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}

	return &rate, nil
}

// RateOn returns the rate effective for currencyCode on date. The canonical
// currency converts at 1 so single-currency entities need no rate rows.
func (s *exchangeRateService) RateOn(ctx context.Context, currencyCode string, date time.Time) (decimal.Decimal, error) {
	currencyCode = strings.ToUpper(currencyCode)
	if len(currencyCode) != 3 {
		return decimal.Zero, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	if currencyCode == canonicalCurrency {
		return decimal.NewFromInt(1), nil
	}

	rate, err := s.rateRepo.FindRateOn(ctx, currencyCode, date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get exchange rate for %s on %s: %w", currencyCode, date.Format("2006-01-02"), err)
	}
	return rate.Rate, nil
}
