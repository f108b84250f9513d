// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/your-org/storefront/internal/domain/inventory"
	"github.com/your-org/storefront/internal/pkg/jsonmap"
)

// Category is a top-level grouping for products (e.g. Electronics).
// Deleting a category nullifies the reference on its products; it never
// force-deletes them.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:255" json:"name"`

	// Relationships
	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// Product is the top-level catalog item (e.g. "Running Shoe"). Concrete
// purchasable options (size M, colour red) live in ProductVariant.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SKU         string    `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	Category *Category        `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"variants,omitempty"`
}

// ProductVariant is a specific purchasable version of a product.
// Attributes holds arbitrary key/value pairs like {"size": "M"} without
// schema changes for new attribute types. PriceCents is an integer number
// of minor currency units; $19.99 -> 1999.
type ProductVariant struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	SKU        string      `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	ProductID  uint        `gorm:"not null;index" json:"product_id"`
	PriceCents int64       `gorm:"not null" json:"price_cents"`
	Attributes jsonmap.Map `gorm:"type:jsonb;not null;default:'{}'" json:"attributes"`
	CreatedAt  time.Time   `json:"created_at"`

	// Relationships. Each variant has exactly one inventory row.
	Product   *Product             `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Inventory *inventory.Inventory `gorm:"foreignKey:VariantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"inventory,omitempty"`
}

// TableName overrides
func (Category) TableName() string       { return "categories" }
func (Product) TableName() string        { return "products" }
func (ProductVariant) TableName() string { return "product_variants" }
