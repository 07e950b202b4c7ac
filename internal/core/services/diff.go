package services

import (
	"github.com/promoflow/campaign_settings/internal/core/domain"
	"github.com/promoflow/campaign_settings/internal/core/schema"
)

// Diff computes the field-level change set between persisted and staged values.
// Only recognized fields are compared; meta fields never appear in the result.
// Deterministic and side-effect free.
func Diff(sch schema.EntitySchema, persisted, staged domain.FieldValues) domain.ChangeSet {
	changes := domain.ChangeSet{}
	for _, name := range sch.FieldNames() {
		persistedValue := persisted[name]
		stagedValue := staged[name]
		if !sch.Equal(name, persistedValue, stagedValue) {
			changes[name] = stagedValue
		}
	}
	return changes
}
