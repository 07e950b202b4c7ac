package repositories

import (
	"context"

	"github.com/promoflow/campaign_settings/internal/core/domain"
)

// HistoryReader defines read operations over the audit trail.
// History rows are written only inside SettingsWriter.CommitRevision; there is
// no standalone append, update or delete.
type HistoryReader interface {
	// ListHistoryByEntity returns audit entries for an entity ordered by commit
	// time descending. A non-positive limit applies the repository default.
	ListHistoryByEntity(ctx context.Context, entityID string, limit int) ([]domain.HistoryEntry, error)

	// ListHistoryByAccount returns audit entries for every entity under an
	// account, using the denormalized hierarchy references.
	ListHistoryByAccount(ctx context.Context, accountID string, limit int) ([]domain.HistoryEntry, error)
}

// HistoryRepositoryFacade combines all history-related repository interfaces.
type HistoryRepositoryFacade interface {
	HistoryReader
}
