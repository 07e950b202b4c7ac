package schema

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/promoflow/campaign_settings/internal/core/domain"
)

// FieldKind describes how a recognized field is stored, compared and rendered.
type FieldKind int

const (
	KindString FieldKind = iota
	KindEnum
	KindBool
	KindDecimal
	KindCurrency // monetary decimal, rendered with currency symbol and fixed places
	KindStringList
	KindRef // cross-reference id, rendered via an injected name resolver
)

// FieldSpec declares one recognized field of an entity type. The tables in
// tables.go are fixed at build time; there is no runtime field discovery.
type FieldSpec struct {
	Name        string
	Kind        FieldKind
	DisplayName string

	// LocalCounterpart names the local_-prefixed pair field when this field is
	// the canonical half of a multicurrency pair.
	LocalCounterpart string

	// Places is the number of decimal places used when rendering currency values.
	Places int32

	// Labels maps enum values to display labels.
	Labels map[string]string
}

// EntitySchema is the fixed field table for one entity type.
type EntitySchema struct {
	EntityType domain.EntityType

	fields       []FieldSpec
	byName       map[string]FieldSpec
	counterparts map[string]string // canonical->local and local->canonical
	localFields  map[string]bool
}

// newEntitySchema builds the lookup indexes. Duplicate field names or dangling
// counterpart references are table authoring mistakes and panic at init time.
func newEntitySchema(entityType domain.EntityType, fields []FieldSpec) EntitySchema {
	s := EntitySchema{
		EntityType:   entityType,
		fields:       fields,
		byName:       make(map[string]FieldSpec, len(fields)),
		counterparts: make(map[string]string),
		localFields:  make(map[string]bool),
	}
	for _, f := range fields {
		if _, exists := s.byName[f.Name]; exists {
			panic(fmt.Sprintf("schema: duplicate field %q on %s", f.Name, entityType))
		}
		s.byName[f.Name] = f
	}
	for _, f := range fields {
		if f.LocalCounterpart == "" {
			continue
		}
		if _, exists := s.byName[f.LocalCounterpart]; !exists {
			panic(fmt.Sprintf("schema: counterpart %q of %q not declared on %s", f.LocalCounterpart, f.Name, entityType))
		}
		s.counterparts[f.Name] = f.LocalCounterpart
		s.counterparts[f.LocalCounterpart] = f.Name
		s.localFields[f.LocalCounterpart] = true
	}
	return s
}

// Spec returns the declaration for a recognized field.
func (s EntitySchema) Spec(name string) (FieldSpec, bool) {
	spec, ok := s.byName[name]
	return spec, ok
}

// Recognized reports whether name is part of the entity type's settings schema.
func (s EntitySchema) Recognized(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// FieldNames returns all recognized field names in declaration order.
func (s EntitySchema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Counterpart returns the other half of a multicurrency pair, in either direction.
func (s EntitySchema) Counterpart(name string) (string, bool) {
	counterpart, ok := s.counterparts[name]
	return counterpart, ok
}

// IsLocal reports whether name is the local-currency half of a pair.
func (s EntitySchema) IsLocal(name string) bool {
	return s.localFields[name]
}

// Equal reports whether two values of a recognized field are the same under the
// field's kind. Unrecognized fields always compare equal so meta fields never
// produce diffs.
func (s EntitySchema) Equal(name string, a, b any) bool {
	spec, ok := s.byName[name]
	if !ok {
		return true
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch spec.Kind {
	case KindDecimal, KindCurrency:
		da, okA := AsDecimal(a)
		db, okB := AsDecimal(b)
		return okA && okB && da.Equal(db)
	case KindStringList:
		la, okA := a.([]string)
		lb, okB := b.([]string)
		if !okA || !okB || len(la) != len(lb) {
			return false
		}
		sa := append([]string(nil), la...)
		sb := append([]string(nil), lb...)
		sort.Strings(sa)
		sort.Strings(sb)
		for i := range sa {
			if sa[i] != sb[i] {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Coerce normalizes a caller-supplied value into the canonical storage type for
// the field. It rejects unrecognized fields and type mismatches.
func (s EntitySchema) Coerce(name string, value any) (any, error) {
	spec, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("field %q is not recognized for %s", name, s.EntityType)
	}
	if value == nil {
		return nil, nil
	}
	switch spec.Kind {
	case KindDecimal, KindCurrency:
		d, ok := AsDecimal(value)
		if !ok {
			return nil, fmt.Errorf("field %q expects a decimal value, got %T", name, value)
		}
		return d, nil
	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("field %q expects a boolean value, got %T", name, value)
		}
		return b, nil
	case KindStringList:
		switch v := value.(type) {
		case []string:
			return append([]string(nil), v...), nil
		case []any:
			out := make([]string, len(v))
			for i, item := range v {
				str, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("field %q expects string list items, got %T", name, item)
				}
				out[i] = str
			}
			return out, nil
		default:
			return nil, fmt.Errorf("field %q expects a string list, got %T", name, value)
		}
	case KindEnum:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("field %q expects an enum value, got %T", name, value)
		}
		if len(spec.Labels) > 0 {
			if _, known := spec.Labels[str]; !known {
				return nil, fmt.Errorf("field %q does not allow value %q", name, str)
			}
		}
		return str, nil
	default:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("field %q expects a string value, got %T", name, value)
		}
		return str, nil
	}
}

// AsDecimal converts the supported numeric representations into a decimal.
func AsDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	default:
		return decimal.Zero, false
	}
}
