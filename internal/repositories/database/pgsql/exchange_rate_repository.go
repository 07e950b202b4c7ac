package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promoflow/campaign_settings/internal/apperrors"
	"github.com/promoflow/campaign_settings/internal/core/domain"
	portsrepo "github.com/promoflow/campaign_settings/internal/core/ports/repositories"
)

type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new repository for exchange rates.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// SaveExchangeRate persists a new exchange rate row.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (
			exchange_rate_id, currency_code, rate, date_effective,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		rate.ExchangeRateID,
		rate.CurrencyCode,
		rate.Rate,
		rate.DateEffective,
		rate.CreatedAt,
		rate.CreatedBy,
		rate.LastUpdatedAt,
		rate.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert exchange rate for "+rate.CurrencyCode, err)
	}
	return nil
}

// FindRateOn retrieves the rate effective for currencyCode on date: the most
// recent rate whose effective date is on or before date.
func (r *PgxExchangeRateRepository) FindRateOn(ctx context.Context, currencyCode string, date time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, currency_code, rate, date_effective,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		WHERE currency_code = $1 AND date_effective <= $2
		ORDER BY date_effective DESC
		LIMIT 1;
	`
	var rate domain.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, currencyCode, date).Scan(
		&rate.ExchangeRateID,
		&rate.CurrencyCode,
		&rate.Rate,
		&rate.DateEffective,
		&rate.CreatedAt,
		&rate.CreatedBy,
		&rate.LastUpdatedAt,
		&rate.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find exchange rate for "+currencyCode, err)
	}
	return &rate, nil
}
