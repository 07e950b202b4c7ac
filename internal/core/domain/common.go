package domain

import "time"

// AuditFields holds standard audit information for mutable domain entities.
// Settings records carry their own creation stamps instead; they are never updated.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}
