// Package domain also holds the single locally persisted model: the
// idempotency record backing safe retries of the recipe generation endpoint.
// Everything else lives in the remote Airtable base.
package domain

import "time"

// Idempotency records the outcome of a previously processed generation
// request, keyed by (user_id, key). A replay within the TTL window returns
// the recipe identified by RecipeSlug instead of re-running the AI workflow
// and its side effects.
type Idempotency struct {
	ID         string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID     string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_key,priority:1"`
	Key        string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_key,priority:2"`
	RecipeSlug string    `gorm:"type:TEXT NOT NULL"`
	Status     int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt  time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
