package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/promoflow/campaign_settings/internal/core/domain"
	portsrepo "github.com/promoflow/campaign_settings/internal/core/ports/repositories"
	portssvc "github.com/promoflow/campaign_settings/internal/core/ports/services"
	"github.com/promoflow/campaign_settings/internal/core/schema"
	"github.com/promoflow/campaign_settings/internal/dto"
	"github.com/promoflow/campaign_settings/internal/logging"
)

// ChangeRenderer turns a change set into the human-readable audit text stored
// on history entries. It only renders; stored values are never altered.
type ChangeRenderer struct {
	resolver schema.RefResolver // may be nil
}

// NewChangeRenderer creates a renderer. resolver resolves cross-reference ids
// to display names and may be nil.
func NewChangeRenderer(resolver schema.RefResolver) *ChangeRenderer {
	return &ChangeRenderer{resolver: resolver}
}

// Render produces one sentence per changed field, in schema declaration order:
// "<DisplayName> set to <new>" when no previous value existed, otherwise
// "<DisplayName> set from <old> to <new>".
func (r *ChangeRenderer) Render(sch schema.EntitySchema, currencySymbol string, before domain.FieldValues, changes domain.ChangeSet) string {
	parts := make([]string, 0, len(changes))
	for _, name := range sch.FieldNames() {
		newValue, ok := changes[name]
		if !ok {
			continue
		}
		spec, _ := sch.Spec(name)
		newText := sch.FormatValue(name, newValue, currencySymbol, r.resolver)
		oldValue := before[name]
		if oldValue == nil {
			parts = append(parts, fmt.Sprintf("%s set to %s", spec.DisplayName, newText))
			continue
		}
		oldText := sch.FormatValue(name, oldValue, currencySymbol, r.resolver)
		parts = append(parts, fmt.Sprintf("%s set from %s to %s", spec.DisplayName, oldText, newText))
	}
	return strings.Join(parts, ", ")
}

// historyService exposes the append-only audit trail.
type historyService struct {
	historyRepo portsrepo.HistoryRepositoryFacade
}

// NewHistoryService creates a new history service.
func NewHistoryService(historyRepo portsrepo.HistoryRepositoryFacade) portssvc.HistorySvcFacade {
	return &historyService{historyRepo: historyRepo}
}

var _ portssvc.HistorySvcFacade = (*historyService)(nil)

// ListEntityHistory returns audit entries for one entity, newest first.
func (s *historyService) ListEntityHistory(ctx context.Context, entityID string, limit int) ([]dto.HistoryEntryResponse, error) {
	logger := logging.FromCtx(ctx)

	entries, err := s.historyRepo.ListHistoryByEntity(ctx, entityID, limit)
	if err != nil {
		logger.Error("Failed to list history for entity", "entityID", entityID, "error", err)
		return nil, fmt.Errorf("failed to retrieve history for entity %s: %w", entityID, err)
	}
	return dto.ToHistoryEntryResponses(entries), nil
}

// ListAccountHistory returns audit entries for every entity under an account.
func (s *historyService) ListAccountHistory(ctx context.Context, accountID string, limit int) ([]dto.HistoryEntryResponse, error) {
	logger := logging.FromCtx(ctx)

	entries, err := s.historyRepo.ListHistoryByAccount(ctx, accountID, limit)
	if err != nil {
		logger.Error("Failed to list history for account", "accountID", accountID, "error", err)
		return nil, fmt.Errorf("failed to retrieve history for account %s: %w", accountID, err)
	}
	return dto.ToHistoryEntryResponses(entries), nil
}
