package schema

import (
	"fmt"
	"strings"
)

// RefResolver turns a cross-reference id into a display name for audit text.
// It must never alter stored values.
type RefResolver func(field, id string) string

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"AUD": "A$",
	"CAD": "C$",
	"CHF": "CHF ",
	"SEK": "kr ",
}

// CurrencySymbol returns the display symbol for a currency code, falling back
// to the code itself.
func CurrencySymbol(code string) string {
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	return code + " "
}

// FormatValue renders a field value for audit text. The currency symbol applies
// only to KindCurrency fields; resolver may be nil, in which case reference
// fields render their raw id.
func (s EntitySchema) FormatValue(name string, value any, currencySymbol string, resolver RefResolver) string {
	if value == nil {
		return "none"
	}
	spec, ok := s.byName[name]
	if !ok {
		return fmt.Sprintf("%v", value)
	}
	switch spec.Kind {
	case KindCurrency:
		d, ok := AsDecimal(value)
		if !ok {
			return fmt.Sprintf("%v", value)
		}
		return currencySymbol + d.StringFixed(spec.Places)
	case KindDecimal:
		d, ok := AsDecimal(value)
		if !ok {
			return fmt.Sprintf("%v", value)
		}
		return d.String()
	case KindEnum:
		str, _ := value.(string)
		if label, ok := spec.Labels[str]; ok {
			return label
		}
		return str
	case KindStringList:
		list, ok := value.([]string)
		if !ok {
			return fmt.Sprintf("%v", value)
		}
		return strings.Join(list, ", ")
	case KindBool:
		if b, _ := value.(bool); b {
			return "yes"
		}
		return "no"
	case KindRef:
		str, _ := value.(string)
		if resolver != nil {
			if resolved := resolver(name, str); resolved != "" {
				return resolved
			}
		}
		return str
	default:
		return fmt.Sprintf("%v", value)
	}
}
