package services

import (
	"context"

	"github.com/promoflow/campaign_settings/internal/dto"
)

// HistorySvcFacade exposes the audit trail.
type HistorySvcFacade interface {
	// ListEntityHistory returns audit entries for one entity, newest first.
	ListEntityHistory(ctx context.Context, entityID string, limit int) ([]dto.HistoryEntryResponse, error)

	// ListAccountHistory returns audit entries for every entity under an account.
	ListAccountHistory(ctx context.Context, accountID string, limit int) ([]dto.HistoryEntryResponse, error)
}
