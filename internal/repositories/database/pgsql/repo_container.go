package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/promoflow/campaign_settings/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository onto one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		EntityRepo:       newPgxEntityRepository(pool),
		SettingsRepo:     newPgxSettingsRepository(pool),
		HistoryRepo:      newPgxHistoryRepository(pool),
		ExchangeRateRepo: newPgxExchangeRateRepository(pool),
	}
}
