package store

import (
	"context"
	"encoding/json"
	"time"
)

// PricingSetting is the persisted rate table. At most one row is active at a
// time; the config itself is opaque JSON owned by res/pricing.
type PricingSetting struct {
	ID       string `gorm:"primaryKey;size:50;unique"`
	Config   string `gorm:"type:text;not null"` // JSON rate table
	IsActive bool   `gorm:"not null;default:false;index:idx_pricing_active"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// PricingConfigStore defines the data access interface for the rate table
type PricingConfigStore interface {
	// GetActive returns the active rate table's raw JSON, or ErrNotFound when
	// no row is active.
	GetActive(ctx context.Context) (json.RawMessage, error)

	// SaveActive replaces the active rate table, creating the row when none
	// exists yet.
	SaveActive(ctx context.Context, config json.RawMessage) error
}
