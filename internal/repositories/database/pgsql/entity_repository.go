package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promoflow/campaign_settings/internal/apperrors"
	"github.com/promoflow/campaign_settings/internal/core/domain"
	portsrepo "github.com/promoflow/campaign_settings/internal/core/ports/repositories"
)

type PgxEntityRepository struct {
	BaseRepository
}

// newPgxEntityRepository creates a new repository for advertising entities.
func newPgxEntityRepository(pool *pgxpool.Pool) portsrepo.EntityRepositoryFacade {
	return &PgxEntityRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.EntityRepositoryFacade = (*PgxEntityRepository)(nil)

// SaveEntity persists a new entity row. The latest settings pointer starts out
// NULL and is only ever moved inside CommitRevision.
func (r *PgxEntityRepository) SaveEntity(ctx context.Context, entity domain.Entity) error {
	query := `
		INSERT INTO entities (
			entity_id, entity_type, name, currency_code,
			account_id, campaign_id, ad_group_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		entity.EntityID,
		entity.EntityType,
		entity.Name,
		entity.CurrencyCode,
		entity.AccountID,
		entity.CampaignID,
		entity.AdGroupID,
		entity.CreatedAt,
		entity.CreatedBy,
		entity.LastUpdatedAt,
		entity.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert entity "+entity.EntityID, err)
	}
	return nil
}

// FindEntityByID retrieves an entity by its ID.
func (r *PgxEntityRepository) FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	query := `
		SELECT entity_id, entity_type, name, currency_code,
		       account_id, campaign_id, ad_group_id, latest_settings_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM entities
		WHERE entity_id = $1;
	`
	var entity domain.Entity
	var accountID, campaignID, adGroupID, latestSettingsID sql.NullString

	err := r.Pool.QueryRow(ctx, query, entityID).Scan(
		&entity.EntityID,
		&entity.EntityType,
		&entity.Name,
		&entity.CurrencyCode,
		&accountID,
		&campaignID,
		&adGroupID,
		&latestSettingsID,
		&entity.CreatedAt,
		&entity.CreatedBy,
		&entity.LastUpdatedAt,
		&entity.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entity by ID "+entityID, err)
	}

	if accountID.Valid {
		entity.AccountID = &accountID.String
	}
	if campaignID.Valid {
		entity.CampaignID = &campaignID.String
	}
	if adGroupID.Valid {
		entity.AdGroupID = &adGroupID.String
	}
	if latestSettingsID.Valid {
		entity.LatestSettingsID = &latestSettingsID.String
	}
	return &entity, nil
}
