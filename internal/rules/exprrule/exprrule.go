// Package exprrule adapts expression-language rules to the settings engine's
// validator contract. Rules are authored as boolean expressions and compiled
// once; a rule evaluating to false rejects the commit with its message.
package exprrule

import (
	"context"
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"github.com/shopspring/decimal"

	"github.com/promoflow/campaign_settings/internal/apperrors"
	"github.com/promoflow/campaign_settings/internal/core/domain"
	portssvc "github.com/promoflow/campaign_settings/internal/core/ports/services"
)

// Rule pairs a compiled expression with the message reported on failure.
//
// The expression evaluates against:
//
//	changes  map of staged field values (decimals as float64)
//	current  map of persisted field values, empty for a first commit
//	parent   map of the parent entity's settings, empty when absent
//	currency the entity's currency code
//	changed(name) whether the change set contains name
type Rule struct {
	name    string
	message string
	program *exprvm.Program
}

// New compiles expression into a rule.
func New(name, expression, message string) (*Rule, error) {
	if expression == "" {
		return nil, fmt.Errorf("rule %q: expression must not be empty", name)
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("rule %q: failed to compile %q: %w", name, expression, err)
	}
	return &Rule{name: name, message: message, program: program}, nil
}

// MustNew is New for statically known expressions; it panics on compile errors.
func MustNew(name, expression, message string) *Rule {
	rule, err := New(name, expression, message)
	if err != nil {
		panic(err)
	}
	return rule
}

// Validator adapts the rule to the engine's pluggable validator contract.
func (r *Rule) Validator() portssvc.Validator {
	return func(ctx context.Context, changes domain.ChangeSet, vctx portssvc.ValidationContext) error {
		env := map[string]any{
			"changes":  toEnv(domain.FieldValues(changes)),
			"current":  toEnv(recordFields(vctx.Current)),
			"parent":   toEnv(recordFields(vctx.ParentSettings)),
			"currency": vctx.CurrencyCode,
			"changed": func(name string) bool {
				_, ok := changes[name]
				return ok
			},
		}
		out, err := exprlang.Run(r.program, env)
		if err != nil {
			return fmt.Errorf("rule %q: evaluation of %v failed: %w", r.name, changes.FieldNames(), err)
		}
		if pass, ok := out.(bool); ok && pass {
			return nil
		}
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, r.message)
	}
}

func recordFields(record *domain.SettingsRecord) domain.FieldValues {
	if record == nil {
		return domain.FieldValues{}
	}
	return record.Fields
}

// toEnv rewrites field values into types the expression VM can compare
// natively; decimals become float64.
func toEnv(values domain.FieldValues) map[string]any {
	env := make(map[string]any, len(values))
	for name, value := range values {
		if d, ok := value.(decimal.Decimal); ok {
			f, _ := d.Float64()
			env[name] = f
			continue
		}
		env[name] = value
	}
	return env
}
