package schema

import (
	"fmt"

	"github.com/promoflow/campaign_settings/internal/core/domain"
)

// Shared enum labels.
var stateLabels = map[string]string{
	"ACTIVE":   "Enabled",
	"INACTIVE": "Paused",
}

var autopilotLabels = map[string]string{
	"INACTIVE":          "Disabled",
	"ACTIVE_CPC":        "Optimize Bids",
	"ACTIVE_CPC_BUDGET": "Optimize Bids and Daily Budgets",
}

var iabCategoryLabels = map[string]string{
	"IAB1":  "Arts & Entertainment",
	"IAB3":  "Business",
	"IAB17": "Sports",
	"IAB19": "Technology & Computing",
	"IAB24": "Uncategorized",
}

var adGroupSchema = newEntitySchema(domain.EntityAdGroup, []FieldSpec{
	{Name: "state", Kind: KindEnum, DisplayName: "State", Labels: stateLabels},
	{Name: "cpc_cc", Kind: KindCurrency, DisplayName: "CPC", Places: 3, LocalCounterpart: "local_cpc_cc"},
	{Name: "local_cpc_cc", Kind: KindCurrency, DisplayName: "Local CPC", Places: 3},
	{Name: "daily_budget", Kind: KindCurrency, DisplayName: "Daily budget", Places: 2, LocalCounterpart: "local_daily_budget"},
	{Name: "local_daily_budget", Kind: KindCurrency, DisplayName: "Local daily budget", Places: 2},
	{Name: "target_regions", Kind: KindStringList, DisplayName: "Locations"},
	{Name: "tracking_code", Kind: KindString, DisplayName: "Tracking code"},
	{Name: "autopilot_state", Kind: KindEnum, DisplayName: "Autopilot", Labels: autopilotLabels},
	{Name: "archived", Kind: KindBool, DisplayName: "Archived"},
})

var campaignSchema = newEntitySchema(domain.EntityCampaign, []FieldSpec{
	{Name: "name", Kind: KindString, DisplayName: "Name"},
	{Name: "campaign_manager", Kind: KindRef, DisplayName: "Campaign Manager"},
	{Name: "iab_category", Kind: KindEnum, DisplayName: "IAB category", Labels: iabCategoryLabels},
	{Name: "target_devices", Kind: KindStringList, DisplayName: "Device targeting"},
	{Name: "campaign_goal", Kind: KindString, DisplayName: "Campaign goal"},
	{Name: "archived", Kind: KindBool, DisplayName: "Archived"},
})

var accountSchema = newEntitySchema(domain.EntityAccount, []FieldSpec{
	{Name: "name", Kind: KindString, DisplayName: "Name"},
	{Name: "account_manager", Kind: KindRef, DisplayName: "Account Manager"},
	{Name: "sales_representative", Kind: KindRef, DisplayName: "Sales Representative"},
	{Name: "archived", Kind: KindBool, DisplayName: "Archived"},
})

var adGroupSourceSchema = newEntitySchema(domain.EntityAdGroupSource, []FieldSpec{
	{Name: "state", Kind: KindEnum, DisplayName: "State", Labels: stateLabels},
	{Name: "cpc_cc", Kind: KindCurrency, DisplayName: "CPC", Places: 3, LocalCounterpart: "local_cpc_cc"},
	{Name: "local_cpc_cc", Kind: KindCurrency, DisplayName: "Local CPC", Places: 3},
	{Name: "daily_budget", Kind: KindCurrency, DisplayName: "Daily budget", Places: 2, LocalCounterpart: "local_daily_budget"},
	{Name: "local_daily_budget", Kind: KindCurrency, DisplayName: "Local daily budget", Places: 2},
	{Name: "landing_mode", Kind: KindEnum, DisplayName: "Landing mode", Labels: map[string]string{
		"DEFAULT":  "Default",
		"LANDED":   "Landed",
		"RESUMING": "Resuming",
	}},
})

var schemasByType = map[domain.EntityType]EntitySchema{
	domain.EntityAdGroup:       adGroupSchema,
	domain.EntityCampaign:      campaignSchema,
	domain.EntityAccount:       accountSchema,
	domain.EntityAdGroupSource: adGroupSourceSchema,
}

// ForEntityType returns the fixed settings schema for an entity type.
func ForEntityType(entityType domain.EntityType) (EntitySchema, error) {
	s, ok := schemasByType[entityType]
	if !ok {
		return EntitySchema{}, fmt.Errorf("no settings schema for entity type %q", entityType)
	}
	return s, nil
}

// Defaults returns the initial field values used when an entity is created.
// Callers may override individual values before the first commit.
func Defaults(entityType domain.EntityType) domain.FieldValues {
	switch entityType {
	case domain.EntityAdGroup:
		return domain.FieldValues{
			"state":           "INACTIVE",
			"autopilot_state": "INACTIVE",
			"archived":        false,
		}
	case domain.EntityCampaign:
		return domain.FieldValues{
			"iab_category": "IAB24",
			"archived":     false,
		}
	case domain.EntityAccount:
		return domain.FieldValues{
			"archived": false,
		}
	case domain.EntityAdGroupSource:
		return domain.FieldValues{
			"state":        "INACTIVE",
			"landing_mode": "DEFAULT",
		}
	default:
		return domain.FieldValues{}
	}
}
