package exprrule_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoflow/campaign_settings/internal/apperrors"
	"github.com/promoflow/campaign_settings/internal/core/domain"
	portssvc "github.com/promoflow/campaign_settings/internal/core/ports/services"
	"github.com/promoflow/campaign_settings/internal/rules/exprrule"
)

func TestNewRejectsEmptyAndMalformedExpressions(t *testing.T) {
	_, err := exprrule.New("empty", "", "msg")
	assert.Error(t, err)

	_, err = exprrule.New("broken", "changes.cpc_cc >", "msg")
	assert.Error(t, err)
}

func TestRulePassesWhenExpressionTrue(t *testing.T) {
	rule := exprrule.MustNew("cpc-positive",
		`not changed("cpc_cc") or changes.cpc_cc > 0`,
		"CPC must be greater than zero")

	err := rule.Validator()(context.Background(),
		domain.ChangeSet{"cpc_cc": decimal.RequireFromString("0.5")},
		portssvc.ValidationContext{CurrencyCode: "USD"},
	)

	assert.NoError(t, err)
}

func TestRuleRejectsWithValidationError(t *testing.T) {
	rule := exprrule.MustNew("cpc-positive",
		`not changed("cpc_cc") or changes.cpc_cc > 0`,
		"CPC must be greater than zero")

	err := rule.Validator()(context.Background(),
		domain.ChangeSet{"cpc_cc": decimal.RequireFromString("-0.1")},
		portssvc.ValidationContext{CurrencyCode: "USD"},
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "CPC must be greater than zero")
}

func TestRuleIgnoresUnrelatedChanges(t *testing.T) {
	rule := exprrule.MustNew("cpc-positive",
		`not changed("cpc_cc") or changes.cpc_cc > 0`,
		"CPC must be greater than zero")

	err := rule.Validator()(context.Background(),
		domain.ChangeSet{"state": "ACTIVE"},
		portssvc.ValidationContext{CurrencyCode: "USD"},
	)

	assert.NoError(t, err)
}

func TestRuleReadsCurrentAndParentState(t *testing.T) {
	rule := exprrule.MustNew("budget-not-below-parent",
		`not changed("daily_budget") or parent.daily_budget == nil or changes.daily_budget <= parent.daily_budget`,
		"ad group budget may not exceed the campaign budget")

	vctx := portssvc.ValidationContext{
		CurrencyCode: "USD",
		ParentSettings: &domain.SettingsRecord{
			Fields: domain.FieldValues{"daily_budget": decimal.RequireFromString("100")},
		},
	}

	err := rule.Validator()(context.Background(),
		domain.ChangeSet{"daily_budget": decimal.RequireFromString("50")}, vctx)
	assert.NoError(t, err)

	err = rule.Validator()(context.Background(),
		domain.ChangeSet{"daily_budget": decimal.RequireFromString("150")}, vctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRuleSeesCurrencyCode(t *testing.T) {
	rule := exprrule.MustNew("usd-only",
		`currency == "USD"`,
		"only USD entities allowed")

	err := rule.Validator()(context.Background(),
		domain.ChangeSet{"state": "ACTIVE"},
		portssvc.ValidationContext{CurrencyCode: "EUR"},
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
