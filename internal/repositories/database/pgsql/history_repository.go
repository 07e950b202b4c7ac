package pgsql

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promoflow/campaign_settings/internal/apperrors"
	"github.com/promoflow/campaign_settings/internal/core/domain"
	portsrepo "github.com/promoflow/campaign_settings/internal/core/ports/repositories"
	"github.com/promoflow/campaign_settings/internal/core/schema"
)

const defaultHistoryLimit = 100

type PgxHistoryRepository struct {
	BaseRepository
}

// newPgxHistoryRepository creates the read side of the audit trail. Writes go
// through CommitRevision only.
func newPgxHistoryRepository(pool *pgxpool.Pool) portsrepo.HistoryRepositoryFacade {
	return &PgxHistoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.HistoryRepositoryFacade = (*PgxHistoryRepository)(nil)

const historyColumns = `history_id, entity_id, entity_type, account_id, campaign_id, ad_group_id,
	       created_by, system_user, action_type, changes, changes_text, created_at`

// ListHistoryByEntity returns audit entries for one entity, newest first.
func (r *PgxHistoryRepository) ListHistoryByEntity(ctx context.Context, entityID string, limit int) ([]domain.HistoryEntry, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM settings_history
		WHERE entity_id = $1
		ORDER BY created_at DESC, history_id DESC
		LIMIT $2;
	`
	return r.list(ctx, query, entityID, limit)
}

// ListHistoryByAccount returns audit entries for every entity under the
// account, newest first.
func (r *PgxHistoryRepository) ListHistoryByAccount(ctx context.Context, accountID string, limit int) ([]domain.HistoryEntry, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM settings_history
		WHERE account_id = $1 OR (entity_type = 'ACCOUNT' AND entity_id = $1)
		ORDER BY created_at DESC, history_id DESC
		LIMIT $2;
	`
	return r.list(ctx, query, accountID, limit)
}

func (r *PgxHistoryRepository) list(ctx context.Context, query, filterID string, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := r.Pool.Query(ctx, query, filterID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query history for "+filterID, err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		entry, err := scanHistoryRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan history row for "+filterID, err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating history rows for "+filterID, err)
	}
	return entries, nil
}

func scanHistoryRow(row pgx.Row) (*domain.HistoryEntry, error) {
	var entry domain.HistoryEntry
	var accountID, campaignID, adGroupID, createdBy sql.NullString
	var systemUser string
	var changesJSON []byte

	err := row.Scan(
		&entry.HistoryID,
		&entry.EntityID,
		&entry.EntityType,
		&accountID,
		&campaignID,
		&adGroupID,
		&createdBy,
		&systemUser,
		&entry.ActionType,
		&changesJSON,
		&entry.ChangesText,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if accountID.Valid {
		entry.AccountID = &accountID.String
	}
	if campaignID.Valid {
		entry.CampaignID = &campaignID.String
	}
	if adGroupID.Valid {
		entry.AdGroupID = &adGroupID.String
	}
	if createdBy.Valid {
		entry.CreatedBy = &createdBy.String
	}
	entry.SystemUser = domain.SystemUser(systemUser)

	sch, err := schema.ForEntityType(entry.EntityType)
	if err != nil {
		return nil, err
	}
	entry.Changes, err = sch.DecodeChanges(changesJSON)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
