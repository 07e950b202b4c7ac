package dto

import (
	"time"

	"github.com/promoflow/campaign_settings/internal/core/domain"
)

// CommitSettingsRequest carries one batch of proposed field edits plus the
// actor and the explicit escape hatches. Every Skip* flag is a deliberate,
// auditable choice at the call site, never a silent default.
type CommitSettingsRequest struct {
	Updates map[string]any `json:"updates" validate:"required,min=1"`

	// Exactly one of UserID / SystemUser identifies the actor.
	UserID     *string           `json:"userID,omitempty" validate:"omitempty,uuid4"`
	SystemUser domain.SystemUser `json:"systemUser,omitempty"`

	SkipValidation   bool `json:"skipValidation,omitempty"`
	SkipAutomation   bool `json:"skipAutomation,omitempty"`
	SkipNotification bool `json:"skipNotification,omitempty"`
}

// CreateEntityRequest provisions a new entity together with its first settings
// record. Overrides replace individual default field values.
type CreateEntityRequest struct {
	EntityType   domain.EntityType  `json:"entityType" validate:"required"`
	Name         string             `json:"name" validate:"required"`
	CurrencyCode string             `json:"currencyCode" validate:"required,len=3,uppercase"`
	AccountID    *string            `json:"accountID,omitempty" validate:"omitempty,uuid4"`
	CampaignID   *string            `json:"campaignID,omitempty" validate:"omitempty,uuid4"`
	AdGroupID    *string            `json:"adGroupID,omitempty" validate:"omitempty,uuid4"`
	Overrides    domain.FieldValues `json:"overrides,omitempty"`
}

// HistoryEntryResponse is the outward shape of one audit row.
type HistoryEntryResponse struct {
	HistoryID   string             `json:"historyID"`
	EntityID    string             `json:"entityID"`
	EntityType  domain.EntityType  `json:"entityType"`
	CreatedBy   *string            `json:"createdBy,omitempty"`
	SystemUser  domain.SystemUser  `json:"systemUser,omitempty"`
	ActionType  domain.ActionType  `json:"actionType"`
	Changes     domain.ChangeSet   `json:"changes"`
	ChangesText string             `json:"changesText"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// ToHistoryEntryResponse converts a domain history entry to its response DTO.
func ToHistoryEntryResponse(entry domain.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		HistoryID:   entry.HistoryID,
		EntityID:    entry.EntityID,
		EntityType:  entry.EntityType,
		CreatedBy:   entry.CreatedBy,
		SystemUser:  entry.SystemUser,
		ActionType:  entry.ActionType,
		Changes:     entry.Changes,
		ChangesText: entry.ChangesText,
		CreatedAt:   entry.CreatedAt,
	}
}

// ToHistoryEntryResponses converts a slice of domain history entries.
func ToHistoryEntryResponses(entries []domain.HistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = ToHistoryEntryResponse(entry)
	}
	return out
}
