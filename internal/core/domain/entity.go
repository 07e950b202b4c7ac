package domain

// EntityType identifies which settings schema an entity uses.
type EntityType string

const (
	EntityAccount       EntityType = "ACCOUNT"
	EntityCampaign      EntityType = "CAMPAIGN"
	EntityAdGroup       EntityType = "AD_GROUP"
	EntityAdGroupSource EntityType = "AD_GROUP_SOURCE"
)

// Entity is an advertising object owning a chain of settings records.
// The latest pointer references exactly one record at any time; hierarchy
// references are denormalized so audit rows can be filtered without joins.
type Entity struct {
	EntityID     string     `json:"entityID"` // Primary Key (UUID)
	EntityType   EntityType `json:"entityType"`
	Name         string     `json:"name"`
	CurrencyCode string     `json:"currencyCode"` // Local currency of the entity (e.g. "EUR")

	// Ancestor references; nil above the respective level.
	AccountID  *string `json:"accountID,omitempty"`
	CampaignID *string `json:"campaignID,omitempty"`
	AdGroupID  *string `json:"adGroupID,omitempty"`

	// LatestSettingsID is the only mutable shared state of the settings chain.
	// It is moved exactly once per successful commit.
	LatestSettingsID *string `json:"latestSettingsID,omitempty"`

	AuditFields
}

// ParentID returns the entity's direct ancestor, or nil for accounts.
func (e Entity) ParentID() *string {
	switch e.EntityType {
	case EntityCampaign:
		return e.AccountID
	case EntityAdGroup:
		return e.CampaignID
	case EntityAdGroupSource:
		return e.AdGroupID
	default:
		return nil
	}
}
