// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/pkg/jsonmap"
)

// Status is an order lifecycle state. Statuses are plain strings
// validated against an allow-list at the service boundary; the column
// carries no database constraint so new states ship without a
// migration.
type Status string

// Order statuses
const (
	StatusCreated   Status = "created"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusRefunded  Status = "refunded"
	StatusCancelled Status = "cancelled"
)

var allowedStatuses = map[Status]bool{
	StatusCreated:   true,
	StatusPaid:      true,
	StatusShipped:   true,
	StatusRefunded:  true,
	StatusCancelled: true,
}

// Valid reports whether s is a known order status
func (s Status) Valid() bool {
	return allowedStatuses[s]
}

// Order represents a placed order. TotalCents and the item subtotals
// are snapshots taken at checkout; later catalog price changes never
// touch an existing order.
type Order struct {
	ID                uint        `json:"id" gorm:"primaryKey"`
	UserID            uint        `json:"user_id" gorm:"not null;index"`
	Status            Status      `json:"status" gorm:"not null;default:'created';size:32"`
	TotalCents        int64       `json:"total_cents" gorm:"not null"`
	Currency          string      `json:"currency" gorm:"not null;default:'USD';size:3"`
	BillingAddressID  *uint       `json:"billing_address_id"`
	ShippingAddressID *uint       `json:"shipping_address_id"`
	PaymentProviderID *string     `json:"payment_provider_id" gorm:"size:255"`
	Metadata          jsonmap.Map `json:"metadata" gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is one line of a placed order with its price snapshot
type OrderItem struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrderID        uint      `json:"order_id" gorm:"not null;index"`
	VariantID      uint      `json:"variant_id" gorm:"not null"`
	Quantity       int       `json:"quantity" gorm:"not null"`
	UnitPriceCents int64     `json:"unit_price_cents" gorm:"not null"`
	SubtotalCents  int64     `json:"subtotal_cents" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`

	Variant *catalog.ProductVariant `json:"variant,omitempty" gorm:"foreignKey:VariantID"`
}

// TableName returns the table name for Order model
func (Order) TableName() string {
	return "orders"
}

// TableName returns the table name for OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
