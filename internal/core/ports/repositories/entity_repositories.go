package repositories

import (
	"context"

	"github.com/promoflow/campaign_settings/internal/core/domain"
)

// EntityReader defines read operations for advertising entities.
type EntityReader interface {
	// FindEntityByID retrieves an entity by its ID.
	FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error)
}

// EntityWriter defines write operations for advertising entities.
// The latest settings pointer is NOT written through this interface; it moves
// only inside SettingsWriter.CommitRevision.
type EntityWriter interface {
	// SaveEntity persists a new entity row.
	SaveEntity(ctx context.Context, entity domain.Entity) error
}

// EntityRepositoryFacade combines all entity-related repository interfaces.
type EntityRepositoryFacade interface {
	EntityReader
	EntityWriter
}
