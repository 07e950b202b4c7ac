package repositories

import (
	"context"

	"github.com/promoflow/campaign_settings/internal/core/domain"
)

// SettingsReader defines read operations over settings snapshots.
// The default read path only reaches the record referenced by the entity's
// latest pointer; scanning the full chain is a deliberate, separate operation.
type SettingsReader interface {
	// FindLatestByEntity returns the record the entity's latest pointer
	// references, or ErrNotFound when the entity has no settings yet.
	FindLatestByEntity(ctx context.Context, entityID string) (*domain.SettingsRecord, error)

	// FindRecordByID retrieves one snapshot by its surrogate id.
	FindRecordByID(ctx context.Context, settingsID string) (*domain.SettingsRecord, error)

	// IterateHistory streams every snapshot of the entity ordered by creation
	// time. fn returning false stops the scan.
	IterateHistory(ctx context.Context, entityID string, fn func(domain.SettingsRecord) bool) error
}

// SettingsWriter defines the only write primitive over settings snapshots.
// There is no update or delete.
type SettingsWriter interface {
	// CommitRevision atomically appends record, moves the entity's latest
	// pointer from expectedLatestID to the new record, and appends entry.
	// If the pointer no longer matches expectedLatestID the transaction is
	// rolled back and ErrConcurrencyConflict is returned. Re-appending an
	// already persisted record fails with ErrProgramming.
	CommitRevision(ctx context.Context, record domain.SettingsRecord, entry domain.HistoryEntry, expectedLatestID *string) error
}

// SettingsMutationGuard exists so bulk mutation attempts fail loudly instead of
// compiling into silent data loss. Implementations panic with ErrProgramming.
type SettingsMutationGuard interface {
	// BulkUpdate always panics: settings records are append-only.
	BulkUpdate(ctx context.Context, entityID string, values domain.FieldValues) error

	// BulkDelete always panics: settings records are never destroyed.
	BulkDelete(ctx context.Context, entityID string) error
}

// SettingsRepositoryFacade combines all settings-related repository interfaces.
type SettingsRepositoryFacade interface {
	SettingsReader
	SettingsWriter
	SettingsMutationGuard
}

// SettingsRepositoryWithTx extends SettingsRepositoryFacade with transaction capabilities.
type SettingsRepositoryWithTx interface {
	SettingsRepositoryFacade
	TransactionManager
}
