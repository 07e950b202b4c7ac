package schema

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/promoflow/campaign_settings/internal/core/domain"
)

// EncodeFields serializes recognized field values for JSONB storage.
// Decimal values are written as strings so precision survives the round trip.
// Nil values are omitted: on a full snapshot, absent and unset are the same.
func (s EntitySchema) EncodeFields(values domain.FieldValues) ([]byte, error) {
	out := make(map[string]any, len(values))
	for name, value := range values {
		spec, ok := s.byName[name]
		if !ok || value == nil {
			continue
		}
		encoded, err := encodeValue(spec, name, value)
		if err != nil {
			return nil, err
		}
		out[name] = encoded
	}
	return json.Marshal(out)
}

// DecodeFields parses a stored JSONB document back into typed field values.
// Fields no longer present in the schema are dropped.
func (s EntitySchema) DecodeFields(data []byte) (domain.FieldValues, error) {
	if len(data) == 0 {
		return domain.FieldValues{}, nil
	}
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode settings fields: %w", err)
	}
	out := make(domain.FieldValues, len(raw))
	for name, value := range raw {
		spec, ok := s.byName[name]
		if !ok || value == nil {
			continue
		}
		decoded, err := decodeValue(spec, name, value)
		if err != nil {
			return nil, err
		}
		out[name] = decoded
	}
	return out, nil
}

// EncodeChanges serializes a change set with the same value representation as
// EncodeFields, except that nil values stay as explicit JSON nulls: in a diff,
// nil means the field was cleared, and dropping it would lose the change.
func (s EntitySchema) EncodeChanges(changes domain.ChangeSet) ([]byte, error) {
	out := make(map[string]any, len(changes))
	for name, value := range changes {
		spec, ok := s.byName[name]
		if !ok {
			continue
		}
		if value == nil {
			out[name] = nil
			continue
		}
		encoded, err := encodeValue(spec, name, value)
		if err != nil {
			return nil, err
		}
		out[name] = encoded
	}
	return json.Marshal(out)
}

// DecodeChanges parses a stored change set document. Explicit nulls come back
// as nil entries so cleared fields remain visible.
func (s EntitySchema) DecodeChanges(data []byte) (domain.ChangeSet, error) {
	if len(data) == 0 {
		return domain.ChangeSet{}, nil
	}
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode change set: %w", err)
	}
	out := make(domain.ChangeSet, len(raw))
	for name, value := range raw {
		spec, ok := s.byName[name]
		if !ok {
			continue
		}
		if value == nil {
			out[name] = nil
			continue
		}
		decoded, err := decodeValue(spec, name, value)
		if err != nil {
			return nil, err
		}
		out[name] = decoded
	}
	return out, nil
}

func encodeValue(spec FieldSpec, name string, value any) (any, error) {
	switch spec.Kind {
	case KindDecimal, KindCurrency:
		d, ok := AsDecimal(value)
		if !ok {
			return nil, fmt.Errorf("field %q holds non-decimal value %T", name, value)
		}
		return d.String(), nil
	default:
		return value, nil
	}
}

func decodeValue(spec FieldSpec, name string, value any) (any, error) {
	switch spec.Kind {
	case KindDecimal, KindCurrency:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("field %q stored as %T, expected string-encoded decimal", name, value)
		}
		d, err := decimal.NewFromString(str)
		if err != nil {
			return nil, fmt.Errorf("field %q holds malformed decimal %q: %w", name, str, err)
		}
		return d, nil
	case KindStringList:
		items, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("field %q stored as %T, expected list", name, value)
		}
		list := make([]string, len(items))
		for i, item := range items {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("field %q holds non-string list item %T", name, item)
			}
			list[i] = str
		}
		return list, nil
	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("field %q stored as %T, expected bool", name, value)
		}
		return b, nil
	default:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("field %q stored as %T, expected string", name, value)
		}
		return str, nil
	}
}
