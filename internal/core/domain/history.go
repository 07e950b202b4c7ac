package domain

import "time"

// ActionType classifies what a committed change did.
type ActionType string

const (
	ActionCreate         ActionType = "CREATE"
	ActionSettingsChange ActionType = "SETTINGS_CHANGE"
	ActionArchive        ActionType = "ARCHIVE"
	ActionRestore        ActionType = "RESTORE"
)

// SystemUser is a non-human actor credited with a commit.
type SystemUser string

const (
	SystemUserNone       SystemUser = ""
	SystemUserAutopilot  SystemUser = "AUTOPILOT"
	SystemUserSourceSync SystemUser = "SOURCE_SYNC"
)

// HistoryEntry is one append-only audit row describing a committed change set.
// Entries are immutable and ordered by commit time; they are never edited or removed.
type HistoryEntry struct {
	HistoryID  string     `json:"historyID"` // Primary Key (UUID)
	EntityID   string     `json:"entityID"`
	EntityType EntityType `json:"entityType"`

	// Denormalized hierarchy references for fast filtering.
	AccountID  *string `json:"accountID,omitempty"`
	CampaignID *string `json:"campaignID,omitempty"`
	AdGroupID  *string `json:"adGroupID,omitempty"`

	CreatedBy  *string    `json:"createdBy,omitempty"`
	SystemUser SystemUser `json:"systemUser,omitempty"`
	ActionType ActionType `json:"actionType"`

	Changes     ChangeSet `json:"changes"`
	ChangesText string    `json:"changesText"` // precomputed human-readable rendering
	CreatedAt   time.Time `json:"createdAt"`
}
