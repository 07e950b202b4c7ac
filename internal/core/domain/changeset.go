package domain

import "sort"

// ChangeSet maps recognized field names to their new values, containing only
// fields that actually differ from the persisted record.
type ChangeSet map[string]any

// IsEmpty reports whether the change set contains no fields.
// An empty change set performs no writes at all.
func (c ChangeSet) IsEmpty() bool {
	return len(c) == 0
}

// FieldNames returns the changed field names in sorted order.
func (c ChangeSet) FieldNames() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
