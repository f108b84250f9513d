// internal/domain/inventory/entity.go
package inventory

import (
	"time"
)

// Inventory tracks stock for a single product variant. One row per
// variant, keyed by the variant id.
//
// available -- units that can be added to a cart and purchased
// reserved  -- units held by created orders pending payment
//
// Both columns carry database CHECK constraints (>= 0) as a last line of
// defence independent of application logic; every mutation happens inside
// a row-locked transaction (see Service.Reserve).
type Inventory struct {
	VariantID     uint      `gorm:"primaryKey" json:"variant_id"`
	Available     int       `gorm:"not null;default:0" json:"available"`
	Reserved      int       `gorm:"not null;default:0" json:"reserved"`
	LastUpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"last_updated_at"`
}

// TableName overrides the table name
func (Inventory) TableName() string {
	return "inventory"
}

// InStock reports whether any units are directly purchasable.
func (i *Inventory) InStock() bool {
	return i.Available > 0
}
