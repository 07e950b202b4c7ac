package services

import (
	"context"

	"github.com/promoflow/campaign_settings/internal/core/domain"
	"github.com/promoflow/campaign_settings/internal/dto"
)

// CommitState is the terminal state of one commit attempt. An attempt moves
// through staging, validation and the storage transaction internally; callers
// only ever observe Committed, Rejected or NoOp (empty change set, nothing
// written).
type CommitState string

const (
	CommitCommitted CommitState = "COMMITTED"
	CommitRejected  CommitState = "REJECTED"
	CommitNoOp      CommitState = "NO_OP"
)

// CommitResult reports the terminal state of one commit attempt.
// Record is the newly committed snapshot for Committed results and the
// unchanged current snapshot for NoOp results.
type CommitResult struct {
	State        CommitState
	Record       *domain.SettingsRecord
	Changes      domain.ChangeSet
	HistoryEntry *domain.HistoryEntry
}

// ValidationContext carries read-only ancestor state needed for cross-field checks.
type ValidationContext struct {
	Entity         domain.Entity
	Current        *domain.SettingsRecord // nil for the first commit
	ParentSettings *domain.SettingsRecord // nil for accounts or when the parent has none
	CurrencyCode   string
}

// Validator is one pluggable business rule. Returning a non-nil error rejects
// the commit before any write; the first failure short-circuits the rule list.
type Validator func(ctx context.Context, changes domain.ChangeSet, vctx ValidationContext) error

// AutomationHook runs after a commit is durable and observes only committed
// state. It may start its own subsequent stage/commit cycle. Failures are
// logged and never unwind the commit.
type AutomationHook func(ctx context.Context, entity domain.Entity, changedFields []string) error

// ChangeNotification describes a committed change for downstream sinks.
type ChangeNotification struct {
	EntityID      string
	EntityType    domain.EntityType
	ChangedFields []string
	Before        domain.FieldValues
	After         domain.FieldValues
}

// Notifier publishes change notifications after commit durability, best effort.
type Notifier func(ctx context.Context, notification ChangeNotification) error

// DefaultsFactory supplies the initial field values for a new entity's first record.
type DefaultsFactory func(entityType domain.EntityType) domain.FieldValues

// SettingsReaderSvc defines read operations for entity settings.
type SettingsReaderSvc interface {
	// GetLatestSettings returns the currently effective settings record.
	GetLatestSettings(ctx context.Context, entityID string) (*domain.SettingsRecord, error)

	// IterateSettingsHistory streams the entity's full snapshot chain in
	// creation order. fn returning false stops the scan.
	IterateSettingsHistory(ctx context.Context, entityID string, fn func(domain.SettingsRecord) bool) error
}

// SettingsWriterSvc defines the staging/commit operations.
type SettingsWriterSvc interface {
	// CreateEntity provisions the entity and its first settings record (from
	// per-type defaults merged with req.Overrides) in one commit.
	CreateEntity(ctx context.Context, req dto.CreateEntityRequest, creatorUserID string) (*domain.Entity, *CommitResult, error)

	// CommitSettings stages req.Updates over the latest record, validates the
	// resulting change set and commits it as one atomic revision.
	CommitSettings(ctx context.Context, entityID string, req dto.CommitSettingsRequest) (*CommitResult, error)
}

// SettingsSvcFacade combines all settings-related service interfaces.
type SettingsSvcFacade interface {
	SettingsReaderSvc
	SettingsWriterSvc
}
