package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/promoflow/campaign_settings/internal/apperrors"
	"github.com/promoflow/campaign_settings/internal/core/domain"
	portsrepo "github.com/promoflow/campaign_settings/internal/core/ports/repositories"
	portssvc "github.com/promoflow/campaign_settings/internal/core/ports/services"
	"github.com/promoflow/campaign_settings/internal/core/schema"
	"github.com/promoflow/campaign_settings/internal/dto"
	"github.com/promoflow/campaign_settings/internal/logging"
)

// SettingsServiceDeps carries the constructor-injected collaborators of the
// commit orchestrator. Validators, automation and notification are supplied by
// the surrounding application; the engine never imports them.
type SettingsServiceDeps struct {
	EntityRepo   portsrepo.EntityRepositoryFacade
	SettingsRepo portsrepo.SettingsRepositoryFacade
	Rates        portssvc.RateProvider
	Renderer     *ChangeRenderer
	Validators   map[domain.EntityType][]portssvc.Validator
	Automation   portssvc.AutomationHook
	Notifier     portssvc.Notifier
	Defaults     portssvc.DefaultsFactory
	Now          func() time.Time
}

// settingsService orchestrates the stage → diff → validate → commit pipeline.
type settingsService struct {
	entityRepo   portsrepo.EntityRepositoryFacade
	settingsRepo portsrepo.SettingsRepositoryFacade
	syncer       *MulticurrencySyncer
	renderer     *ChangeRenderer
	validators   map[domain.EntityType][]portssvc.Validator
	automation   portssvc.AutomationHook
	notifier     portssvc.Notifier
	defaults     portssvc.DefaultsFactory
	now          func() time.Time
	validate     *validator.Validate
}

// NewSettingsService creates the commit orchestrator.
func NewSettingsService(deps SettingsServiceDeps) portssvc.SettingsSvcFacade {
	if deps.Renderer == nil {
		deps.Renderer = NewChangeRenderer(nil)
	}
	if deps.Defaults == nil {
		deps.Defaults = schema.Defaults
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &settingsService{
		entityRepo:   deps.EntityRepo,
		settingsRepo: deps.SettingsRepo,
		syncer:       NewMulticurrencySyncer(deps.Rates),
		renderer:     deps.Renderer,
		validators:   deps.Validators,
		automation:   deps.Automation,
		notifier:     deps.Notifier,
		defaults:     deps.Defaults,
		now:          deps.Now,
		validate:     validator.New(),
	}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// GetLatestSettings returns the currently effective settings record.
func (s *settingsService) GetLatestSettings(ctx context.Context, entityID string) (*domain.SettingsRecord, error) {
	record, err := s.settingsRepo.FindLatestByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest settings for entity %s: %w", entityID, err)
	}
	return record, nil
}

// IterateSettingsHistory streams the entity's full snapshot chain in creation order.
func (s *settingsService) IterateSettingsHistory(ctx context.Context, entityID string, fn func(domain.SettingsRecord) bool) error {
	return s.settingsRepo.IterateHistory(ctx, entityID, fn)
}

// CreateEntity provisions the entity row and its first settings record in one
// commit. Defaults come from the injected factory; req.Overrides replace
// individual values before the first commit.
func (s *settingsService) CreateEntity(ctx context.Context, req dto.CreateEntityRequest, creatorUserID string) (*domain.Entity, *portssvc.CommitResult, error) {
	logger := logging.FromCtx(ctx)

	if err := s.validate.Struct(req); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if _, err := schema.ForEntityType(req.EntityType); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := s.now().UTC()
	entity := domain.Entity{
		EntityID:     uuid.NewString(),
		EntityType:   req.EntityType,
		Name:         req.Name,
		CurrencyCode: req.CurrencyCode,
		AccountID:    req.AccountID,
		CampaignID:   req.CampaignID,
		AdGroupID:    req.AdGroupID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	updates := map[string]any{}
	for field, value := range s.defaults(req.EntityType) {
		updates[field] = value
	}
	for field, value := range req.Overrides {
		updates[field] = value
	}

	// The entity row is persisted inside commit, after the first change set has
	// passed validation. A rejected create leaves no rows behind.
	result, err := s.commit(ctx, entity, nil, updates, commitOptions{
		userID:       &creatorUserID,
		createEntity: &entity,
	})
	if err != nil {
		return nil, result, err
	}

	entity.LatestSettingsID = &result.Record.SettingsID
	logger.Info("Entity created with initial settings",
		slog.String("entity_id", entity.EntityID),
		slog.String("entity_type", string(entity.EntityType)),
		slog.String("settings_id", result.Record.SettingsID),
	)
	return &entity, result, nil
}

// CommitSettings stages req.Updates over the latest record, validates the
// resulting change set and commits it as one atomic revision.
func (s *settingsService) CommitSettings(ctx context.Context, entityID string, req dto.CommitSettingsRequest) (*portssvc.CommitResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if req.UserID != nil && req.SystemUser != domain.SystemUserNone {
		return nil, fmt.Errorf("%w: a commit is credited to either a user or a system user, not both", apperrors.ErrValidation)
	}

	entity, err := s.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entity %s: %w", entityID, err)
	}

	current, err := s.settingsRepo.FindLatestByEntity(ctx, entityID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load latest settings for entity %s: %w", entityID, err)
	}

	return s.commit(ctx, *entity, current, req.Updates, commitOptions{
		userID:           req.UserID,
		systemUser:       req.SystemUser,
		skipValidation:   req.SkipValidation,
		skipAutomation:   req.SkipAutomation,
		skipNotification: req.SkipNotification,
	})
}

type commitOptions struct {
	userID           *string
	systemUser       domain.SystemUser
	skipValidation   bool
	skipAutomation   bool
	skipNotification bool

	// createEntity, when set, is a new entity row to persist together with its
	// first settings record, once the change set has passed validation.
	createEntity *domain.Entity
}

// commit runs the state machine over one batch of updates. current is nil for
// an entity's first record. Validation strictly precedes persistence; the
// storage write is one atomic transaction; automation and notification run
// afterwards against durable state only.
func (s *settingsService) commit(ctx context.Context, entity domain.Entity, current *domain.SettingsRecord, updates map[string]any, opts commitOptions) (*portssvc.CommitResult, error) {
	logger := logging.FromCtx(ctx)

	sch, err := schema.ForEntityType(entity.EntityType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := s.now().UTC()
	proxy := CopySettings(sch, current, entity.CurrencyCode, now, s.syncer)

	// Deterministic staging order keeps derived counterparts reproducible.
	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		if err := proxy.Set(ctx, field, updates[field]); err != nil {
			return &portssvc.CommitResult{State: portssvc.CommitRejected}, err
		}
	}

	changes := proxy.Changes()
	if changes.IsEmpty() {
		if opts.createEntity != nil {
			return &portssvc.CommitResult{State: portssvc.CommitRejected},
				fmt.Errorf("%w: initial settings must set at least one field", apperrors.ErrValidation)
		}
		logger.Debug("Settings commit is a no-op", slog.String("entity_id", entity.EntityID))
		return &portssvc.CommitResult{State: portssvc.CommitNoOp, Record: current}, nil
	}

	if opts.skipValidation {
		logger.Warn("Settings validation explicitly skipped by caller",
			slog.String("entity_id", entity.EntityID),
			slog.Any("changed_fields", changes.FieldNames()),
		)
	} else {
		vctx, err := s.buildValidationContext(ctx, entity, current)
		if err != nil {
			return &portssvc.CommitResult{State: portssvc.CommitRejected, Changes: changes}, err
		}
		for _, validate := range s.validators[entity.EntityType] {
			if err := validate(ctx, changes, vctx); err != nil {
				logger.Info("Settings commit rejected by validator",
					slog.String("entity_id", entity.EntityID),
					slog.String("error", err.Error()),
				)
				if !errors.Is(err, apperrors.ErrValidation) {
					err = fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
				}
				return &portssvc.CommitResult{State: portssvc.CommitRejected, Changes: changes}, err
			}
		}
	}

	if opts.createEntity != nil {
		if err := s.entityRepo.SaveEntity(ctx, *opts.createEntity); err != nil {
			logger.Error("Failed to save entity",
				slog.String("entity_type", string(entity.EntityType)),
				slog.String("error", err.Error()),
			)
			return &portssvc.CommitResult{State: portssvc.CommitRejected, Changes: changes},
				fmt.Errorf("failed to save entity: %w", err)
		}
	}

	record := domain.SettingsRecord{
		SettingsID: uuid.NewString(),
		EntityID:   entity.EntityID,
		EntityType: entity.EntityType,
		CreatedAt:  now,
		CreatedBy:  opts.userID,
		SystemUser: opts.systemUser,
		Fields:     proxy.EffectiveFields(),
	}

	entry := s.buildHistoryEntry(entity, sch, proxy.BaseFields(), changes, record, opts)

	if err := s.settingsRepo.CommitRevision(ctx, record, entry, entity.LatestSettingsID); err != nil {
		if errors.Is(err, apperrors.ErrConcurrencyConflict) {
			logger.Warn("Settings commit lost the latest-pointer race",
				slog.String("entity_id", entity.EntityID),
			)
			return &portssvc.CommitResult{State: portssvc.CommitRejected, Changes: changes}, err
		}
		logger.Error("Settings commit failed to persist",
			slog.String("entity_id", entity.EntityID),
			slog.String("error", err.Error()),
		)
		return &portssvc.CommitResult{State: portssvc.CommitRejected, Changes: changes},
			fmt.Errorf("failed to commit settings revision for entity %s: %w", entity.EntityID, err)
	}

	logger.Info("Settings committed",
		slog.String("entity_id", entity.EntityID),
		slog.String("settings_id", record.SettingsID),
		slog.Any("changed_fields", changes.FieldNames()),
	)

	// Post-commit collaborators observe the durable record only. Their
	// failures never unwind the commit.
	committedEntity := entity
	committedEntity.LatestSettingsID = &record.SettingsID
	if !opts.skipAutomation && s.automation != nil {
		if err := s.automation(ctx, committedEntity, changes.FieldNames()); err != nil {
			logger.Error("Post-commit automation hook failed",
				slog.String("entity_id", entity.EntityID),
				slog.String("error", err.Error()),
			)
		}
	}
	if !opts.skipNotification && s.notifier != nil {
		notification := portssvc.ChangeNotification{
			EntityID:      entity.EntityID,
			EntityType:    entity.EntityType,
			ChangedFields: changes.FieldNames(),
			Before:        proxy.BaseFields(),
			After:         record.Fields.Clone(),
		}
		if err := s.notifier(ctx, notification); err != nil {
			logger.Error("Change notification failed",
				slog.String("entity_id", entity.EntityID),
				slog.String("error", err.Error()),
			)
		}
	}

	return &portssvc.CommitResult{
		State:        portssvc.CommitCommitted,
		Record:       &record,
		Changes:      changes,
		HistoryEntry: &entry,
	}, nil
}

// buildValidationContext loads the read-only ancestor state validators may need.
func (s *settingsService) buildValidationContext(ctx context.Context, entity domain.Entity, current *domain.SettingsRecord) (portssvc.ValidationContext, error) {
	vctx := portssvc.ValidationContext{
		Entity:       entity,
		Current:      current,
		CurrencyCode: entity.CurrencyCode,
	}

	parentID := entity.ParentID()
	if parentID == nil {
		return vctx, nil
	}
	parentSettings, err := s.settingsRepo.FindLatestByEntity(ctx, *parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return vctx, nil
		}
		return vctx, fmt.Errorf("failed to load parent settings for entity %s: %w", entity.EntityID, err)
	}
	vctx.ParentSettings = parentSettings
	return vctx, nil
}

func (s *settingsService) buildHistoryEntry(entity domain.Entity, sch schema.EntitySchema, before domain.FieldValues, changes domain.ChangeSet, record domain.SettingsRecord, opts commitOptions) domain.HistoryEntry {
	entry := domain.HistoryEntry{
		HistoryID:   uuid.NewString(),
		EntityID:    entity.EntityID,
		EntityType:  entity.EntityType,
		AccountID:   entity.AccountID,
		CampaignID:  entity.CampaignID,
		AdGroupID:   entity.AdGroupID,
		CreatedBy:   opts.userID,
		SystemUser:  opts.systemUser,
		ActionType:  actionFor(entity.LatestSettingsID == nil, before, changes),
		Changes:     changes,
		ChangesText: s.renderer.Render(sch, schema.CurrencySymbol(entity.CurrencyCode), before, changes),
		CreatedAt:   record.CreatedAt,
	}

	// The entry also references the entity's own level so account-wide history
	// filters match the account's own commits.
	switch entity.EntityType {
	case domain.EntityAccount:
		entry.AccountID = &entity.EntityID
	case domain.EntityCampaign:
		entry.CampaignID = &entity.EntityID
	case domain.EntityAdGroup:
		entry.AdGroupID = &entity.EntityID
	}
	return entry
}

// actionFor classifies a commit for the audit trail. Logical deletion is a
// settings change like any other: archiving flips a field, nothing is removed.
func actionFor(first bool, before domain.FieldValues, changes domain.ChangeSet) domain.ActionType {
	if first {
		return domain.ActionCreate
	}
	if archived, ok := changes["archived"]; ok {
		if flag, isBool := archived.(bool); isBool {
			if flag {
				return domain.ActionArchive
			}
			if wasArchived, _ := before["archived"].(bool); wasArchived {
				return domain.ActionRestore
			}
		}
	}
	return domain.ActionSettingsChange
}
