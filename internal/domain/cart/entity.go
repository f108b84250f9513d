// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/user"
)

// MaxLineQuantity caps a single cart line. Larger orders go through
// support rather than the storefront.
const MaxLineQuantity = 99

// Cart is a user's single open cart. One row per user, created lazily
// on first access and kept after checkout empties it.
type Cart struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	User  *user.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// CartItem is one (cart, variant) line. The composite unique index makes
// adding an already-carted variant an increment, never a second row.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CartID    uint      `json:"cart_id" gorm:"uniqueIndex:idx_cart_items_cart_variant;not null"`
	VariantID uint      `json:"variant_id" gorm:"uniqueIndex:idx_cart_items_cart_variant;not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Variant *catalog.ProductVariant `json:"variant,omitempty" gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Cart model
func (Cart) TableName() string {
	return "carts"
}

// TableName returns the table name for CartItem model
func (CartItem) TableName() string {
	return "cart_items"
}
