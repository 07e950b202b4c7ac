package domain

import "time"

// FieldValues maps recognized field names to values. Value types depend on the
// field kind declared in the schema: string, bool, decimal.Decimal or []string.
// A nil (or absent) value means the field is unset.
type FieldValues map[string]any

// Clone returns a deep copy; slice values are copied so the original snapshot
// cannot be mutated through the clone.
func (f FieldValues) Clone() FieldValues {
	if f == nil {
		return FieldValues{}
	}
	out := make(FieldValues, len(f))
	for name, value := range f {
		if list, ok := value.([]string); ok {
			copied := make([]string, len(list))
			copy(copied, list)
			out[name] = copied
			continue
		}
		out[name] = value
	}
	return out
}

// SettingsRecord is one immutable, timestamped configuration snapshot.
// Records are only ever appended; updating or deleting a persisted record is a
// contract violation enforced by the storage layer.
type SettingsRecord struct {
	SettingsID string     `json:"settingsID"` // Primary Key (UUID)
	EntityID   string     `json:"entityID"`
	EntityType EntityType `json:"entityType"`
	CreatedAt  time.Time  `json:"createdAt"`
	CreatedBy  *string    `json:"createdBy,omitempty"` // nil for system-initiated commits
	SystemUser SystemUser `json:"systemUser,omitempty"`
	Fields     FieldValues `json:"fields"`
}

// Clone copies the record with independent field storage.
func (r SettingsRecord) Clone() SettingsRecord {
	clone := r
	clone.Fields = r.Fields.Clone()
	return clone
}

// Value returns the stored value for field, or nil when the record (or field) is absent.
func (r *SettingsRecord) Value(field string) any {
	if r == nil || r.Fields == nil {
		return nil
	}
	return r.Fields[field]
}
