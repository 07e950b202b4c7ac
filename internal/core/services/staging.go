package services

import (
	"context"
	"fmt"
	"time"

	"github.com/promoflow/campaign_settings/internal/apperrors"
	"github.com/promoflow/campaign_settings/internal/core/domain"
	"github.com/promoflow/campaign_settings/internal/core/schema"
)

// StagingProxy is an in-memory copy-on-write overlay over the latest settings
// record. It accumulates proposed edits without touching the persisted snapshot;
// multicurrency counterparts are staged alongside direct edits.
type StagingProxy struct {
	schema   schema.EntitySchema
	base     domain.FieldValues // persisted values, never mutated
	currency string
	date     time.Time
	syncer   *MulticurrencySyncer

	staged   domain.FieldValues
	explicit map[string]bool // fields set directly by the caller this session
}

// CopySettings builds a staging proxy over record. record may be nil when the
// entity has no settings yet; the proxy then stages against an empty base.
// date fixes which exchange rate applies to every edit of this session.
func CopySettings(sch schema.EntitySchema, record *domain.SettingsRecord, currencyCode string, date time.Time, syncer *MulticurrencySyncer) *StagingProxy {
	base := domain.FieldValues{}
	if record != nil {
		base = record.Fields.Clone()
	}
	return &StagingProxy{
		schema:   sch,
		base:     base,
		currency: currencyCode,
		date:     date,
		syncer:   syncer,
		staged:   domain.FieldValues{},
		explicit: map[string]bool{},
	}
}

// Get returns the staged value when present, else the persisted one.
func (p *StagingProxy) Get(field string) any {
	if value, ok := p.staged[field]; ok {
		return value
	}
	return p.base[field]
}

// Set stages field = value. Setting a value equal to the currently effective one
// is a no-op. When field is half of a multicurrency pair the counterpart is
// staged too, unless the counterpart was already explicitly set in this
// session: explicit edits win over derived ones.
func (p *StagingProxy) Set(ctx context.Context, field string, value any) error {
	if !p.schema.Recognized(field) {
		return fmt.Errorf("%w: field %q is not recognized for %s", apperrors.ErrValidation, field, p.schema.EntityType)
	}
	coerced, err := p.schema.Coerce(field, value)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if p.schema.Equal(field, coerced, p.Get(field)) {
		return nil
	}

	p.staged[field] = coerced
	p.explicit[field] = true

	pair, err := p.syncer.Sync(ctx, p.schema, field, coerced, p.currency, p.date)
	if err != nil {
		return err
	}
	if pair != nil && !p.explicit[pair.Field] {
		if !p.schema.Equal(pair.Field, pair.Value, p.Get(pair.Field)) {
			p.staged[pair.Field] = pair.Value
		}
	}
	return nil
}

// Changes computes the change set between the persisted record and the staged
// overlay, restricted to recognized fields.
func (p *StagingProxy) Changes() domain.ChangeSet {
	return Diff(p.schema, p.base, p.EffectiveFields())
}

// EffectiveFields merges the persisted base with the staged overlay into the
// full field set a committed revision would carry.
func (p *StagingProxy) EffectiveFields() domain.FieldValues {
	merged := p.base.Clone()
	for field, value := range p.staged {
		merged[field] = value
	}
	return merged
}

// BaseFields returns a copy of the persisted values the proxy was built over.
func (p *StagingProxy) BaseFields() domain.FieldValues {
	return p.base.Clone()
}
