package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoflow/campaign_settings/internal/core/domain"
)

func TestFieldValuesCloneIsDeep(t *testing.T) {
	original := domain.FieldValues{
		"state":          "ACTIVE",
		"target_regions": []string{"US", "GB"},
	}

	clone := original.Clone()
	clone["state"] = "INACTIVE"
	clone["target_regions"].([]string)[0] = "DE"

	assert.Equal(t, "ACTIVE", original["state"])
	assert.Equal(t, []string{"US", "GB"}, original["target_regions"])
}

func TestFieldValuesCloneNil(t *testing.T) {
	var values domain.FieldValues
	clone := values.Clone()
	require.NotNil(t, clone)
	assert.Empty(t, clone)
}

func TestSettingsRecordValue(t *testing.T) {
	var record *domain.SettingsRecord
	assert.Nil(t, record.Value("state"))

	record = &domain.SettingsRecord{Fields: domain.FieldValues{"state": "ACTIVE"}}
	assert.Equal(t, "ACTIVE", record.Value("state"))
	assert.Nil(t, record.Value("missing"))
}

func TestEntityParentID(t *testing.T) {
	accountID := "a-1"
	campaignID := "c-1"
	adGroupID := "g-1"

	account := domain.Entity{EntityType: domain.EntityAccount}
	assert.Nil(t, account.ParentID())

	campaign := domain.Entity{EntityType: domain.EntityCampaign, AccountID: &accountID}
	require.NotNil(t, campaign.ParentID())
	assert.Equal(t, accountID, *campaign.ParentID())

	adGroup := domain.Entity{EntityType: domain.EntityAdGroup, AccountID: &accountID, CampaignID: &campaignID}
	require.NotNil(t, adGroup.ParentID())
	assert.Equal(t, campaignID, *adGroup.ParentID())

	source := domain.Entity{EntityType: domain.EntityAdGroupSource, AdGroupID: &adGroupID}
	require.NotNil(t, source.ParentID())
	assert.Equal(t, adGroupID, *source.ParentID())
}

func TestChangeSetFieldNamesSorted(t *testing.T) {
	changes := domain.ChangeSet{"state": "ACTIVE", "cpc_cc": "0.5", "archived": false}
	assert.Equal(t, []string{"archived", "cpc_cc", "state"}, changes.FieldNames())
	assert.False(t, changes.IsEmpty())
	assert.True(t, domain.ChangeSet{}.IsEmpty())
}
