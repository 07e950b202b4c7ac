package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promoflow/campaign_settings/internal/apperrors"
	"github.com/promoflow/campaign_settings/internal/core/domain"
	portsrepo "github.com/promoflow/campaign_settings/internal/core/ports/repositories"
	"github.com/promoflow/campaign_settings/internal/core/schema"
)

type PgxSettingsRepository struct {
	BaseRepository
}

// newPgxSettingsRepository creates the append-only settings snapshot store.
func newPgxSettingsRepository(pool *pgxpool.Pool) portsrepo.SettingsRepositoryWithTx {
	return &PgxSettingsRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SettingsRepositoryWithTx = (*PgxSettingsRepository)(nil)

const settingsColumns = `settings_id, entity_id, entity_type, created_at, created_by, system_user, fields`

// FindLatestByEntity returns the record the entity's latest pointer references.
// The join through entities.latest_settings_id is deliberate: current-settings
// reads never scan the chain.
func (r *PgxSettingsRepository) FindLatestByEntity(ctx context.Context, entityID string) (*domain.SettingsRecord, error) {
	query := `
		SELECT s.settings_id, s.entity_id, s.entity_type, s.created_at,
		       s.created_by, s.system_user, s.fields
		FROM settings_records s
		JOIN entities e ON e.latest_settings_id = s.settings_id
		WHERE e.entity_id = $1;
	`
	record, err := r.scanOne(r.Pool.QueryRow(ctx, query, entityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find latest settings for entity "+entityID, err)
	}
	return record, nil
}

// FindRecordByID retrieves one snapshot by its surrogate id.
func (r *PgxSettingsRepository) FindRecordByID(ctx context.Context, settingsID string) (*domain.SettingsRecord, error) {
	query := `
		SELECT ` + settingsColumns + `
		FROM settings_records
		WHERE settings_id = $1;
	`
	record, err := r.scanOne(r.Pool.QueryRow(ctx, query, settingsID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find settings record "+settingsID, err)
	}
	return record, nil
}

// IterateHistory streams every snapshot of the entity ordered by creation time.
// Scanning the full chain is an explicit opt-in; fn returning false stops early.
func (r *PgxSettingsRepository) IterateHistory(ctx context.Context, entityID string, fn func(domain.SettingsRecord) bool) error {
	query := `
		SELECT ` + settingsColumns + `
		FROM settings_records
		WHERE entity_id = $1
		ORDER BY created_at, settings_id;
	`
	rows, err := r.Pool.Query(ctx, query, entityID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query settings history for entity "+entityID, err)
	}
	defer rows.Close()

	for rows.Next() {
		record, err := r.scanOne(rows)
		if err != nil {
			return apperrors.NewAppError(500, "failed to scan settings row for entity "+entityID, err)
		}
		if !fn(*record) {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating settings rows for entity "+entityID, err)
	}
	return nil
}

// CommitRevision performs the atomic commit: append the new snapshot, move the
// entity's latest pointer via compare-and-swap, and append the audit entry. Any
// failure rolls the whole transaction back; a moved pointer surfaces as
// ErrConcurrencyConflict and the caller retries from a fresh read.
func (r *PgxSettingsRepository) CommitRevision(ctx context.Context, record domain.SettingsRecord, entry domain.HistoryEntry, expectedLatestID *string) error {
	sch, err := schema.ForEntityType(record.EntityType)
	if err != nil {
		return apperrors.NewAppError(500, "unknown entity type on settings record "+record.SettingsID, err)
	}
	fieldsJSON, err := sch.EncodeFields(record.Fields)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode settings fields for record "+record.SettingsID, err)
	}
	changesJSON, err := sch.EncodeChanges(entry.Changes)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode change set for record "+record.SettingsID, err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction commits.

	// Records are append-only; a duplicate id means someone tried to re-persist
	// an already committed snapshot.
	recordQuery := `
		INSERT INTO settings_records (` + settingsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (settings_id) DO NOTHING;
	`
	ct, err := tx.Exec(ctx, recordQuery,
		record.SettingsID,
		record.EntityID,
		record.EntityType,
		record.CreatedAt,
		record.CreatedBy,
		string(record.SystemUser),
		fieldsJSON,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert settings record "+record.SettingsID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: settings record %s is already persisted and immutable", apperrors.ErrProgramming, record.SettingsID)
	}

	// Compare-and-swap on the latest pointer serializes concurrent commits
	// against the same entity.
	pointerQuery := `
		UPDATE entities
		SET latest_settings_id = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE entity_id = $1
		  AND latest_settings_id IS NOT DISTINCT FROM $5;
	`
	ct, err = tx.Exec(ctx, pointerQuery,
		record.EntityID,
		record.SettingsID,
		record.CreatedAt,
		actorOf(record),
		expectedLatestID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to move latest settings pointer for entity "+record.EntityID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrConcurrencyConflict
	}

	historyQuery := `
		INSERT INTO settings_history (
			history_id, entity_id, entity_type,
			account_id, campaign_id, ad_group_id,
			created_by, system_user, action_type,
			changes, changes_text, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, historyQuery,
		entry.HistoryID,
		entry.EntityID,
		entry.EntityType,
		entry.AccountID,
		entry.CampaignID,
		entry.AdGroupID,
		entry.CreatedBy,
		string(entry.SystemUser),
		entry.ActionType,
		changesJSON,
		entry.ChangesText,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert history entry for entity "+entry.EntityID, err)
	}

	return r.Commit(ctx, tx)
}

// BulkUpdate always panics. Settings records are append-only; rewriting them in
// place would corrupt the audit chain.
func (r *PgxSettingsRepository) BulkUpdate(ctx context.Context, entityID string, values domain.FieldValues) error {
	panic(fmt.Errorf("%w: bulk update of settings records is forbidden, commit a new revision instead", apperrors.ErrProgramming))
}

// BulkDelete always panics. Settings records are never destroyed; archive the
// entity through a settings commit instead.
func (r *PgxSettingsRepository) BulkDelete(ctx context.Context, entityID string) error {
	panic(fmt.Errorf("%w: bulk delete of settings records is forbidden", apperrors.ErrProgramming))
}

// scanOne decodes a settings row from any pgx row source.
func (r *PgxSettingsRepository) scanOne(row pgx.Row) (*domain.SettingsRecord, error) {
	var record domain.SettingsRecord
	var createdBy sql.NullString
	var systemUser string
	var fieldsJSON []byte

	err := row.Scan(
		&record.SettingsID,
		&record.EntityID,
		&record.EntityType,
		&record.CreatedAt,
		&createdBy,
		&systemUser,
		&fieldsJSON,
	)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		record.CreatedBy = &createdBy.String
	}
	record.SystemUser = domain.SystemUser(systemUser)

	sch, err := schema.ForEntityType(record.EntityType)
	if err != nil {
		return nil, err
	}
	record.Fields, err = sch.DecodeFields(fieldsJSON)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// actorOf returns the audit actor string for the entity row update.
func actorOf(record domain.SettingsRecord) string {
	if record.CreatedBy != nil {
		return *record.CreatedBy
	}
	return string(record.SystemUser)
}
