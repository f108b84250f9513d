// internal/domain/user/entity.go
package user

import (
	"time"
)

// User represents a registered customer. Identity resolution happens
// outside this service; the core only needs the row as a foreign-key
// anchor for carts, orders and addresses.
type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Email string `gorm:"uniqueIndex;not null;size:255" json:"email"`

	// Nullable so the table can support OAuth/SSO sign-ins with no
	// local password.
	HashedPassword *string   `gorm:"size:255" json:"-"`
	CreatedAt      time.Time `json:"created_at"`

	// Relationships
	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"addresses,omitempty"`
}

// Address represents a postal address. UserID is severed (SET NULL), not
// cascaded, when the user is deleted: orders keep referencing the address
// for historical record-keeping.
type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	Line1      string    `gorm:"size:255" json:"line1"`
	Line2      string    `gorm:"size:255" json:"line2,omitempty"`
	City       string    `gorm:"size:100" json:"city"`
	Region     string    `gorm:"size:100" json:"region"`
	Country    string    `gorm:"size:2" json:"country"`
	PostalCode string    `gorm:"size:20" json:"postal_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides
func (User) TableName() string    { return "users" }
func (Address) TableName() string { return "addresses" }
