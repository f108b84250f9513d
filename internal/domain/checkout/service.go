// internal/domain/checkout/service.go
package checkout

import (
	"fmt"
	"strings"

	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/inventory"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/user"
	"github.com/your-org/storefront/internal/pkg/apperr"
	"github.com/your-org/storefront/internal/pkg/jsonmap"
	"gorm.io/gorm"
)

// Service turns a cart into an order. The whole conversion runs in one
// database transaction: reserve stock, snapshot prices, create the
// order, empty the cart. Any failure rolls the entire step back, so a
// failed checkout leaves stock, cart and order history untouched.
type Service struct {
	db        *gorm.DB
	cart      *cart.Service
	inventory *inventory.Service
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, cartService *cart.Service, inventoryService *inventory.Service) *Service {
	return &Service{
		db:        db,
		cart:      cartService,
		inventory: inventoryService,
	}
}

// Request carries the optional checkout parameters. Addresses must
// belong to the checking-out user; currency defaults to USD.
type Request struct {
	Currency          string `json:"currency" binding:"omitempty,len=3"`
	BillingAddressID  *uint  `json:"billing_address_id"`
	ShippingAddressID *uint  `json:"shipping_address_id"`
}

// Checkout converts the user's cart into a created order.
//
// The empty-cart check runs before any row lock is taken, so the cheap
// failure never contends with other checkouts. Unit prices are read
// inside the transaction and copied onto the order lines; the order
// total is the sum of those snapshots, immune to later price edits.
func (s *Service) Checkout(userID uint, req *Request) (*order.Order, error) {
	currency, err := normalizeCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	var created order.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var userCart cart.Cart
		err := tx.Where("user_id = ?", userID).
			Preload("Items", func(db *gorm.DB) *gorm.DB {
				return db.Order("cart_items.id ASC")
			}).
			First(&userCart).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.EmptyCart()
			}
			return fmt.Errorf("failed to load cart: %w", err)
		}
		if len(userCart.Items) == 0 {
			return apperr.EmptyCart()
		}

		if err := s.validateAddress(tx, userID, req.BillingAddressID); err != nil {
			return err
		}
		if err := s.validateAddress(tx, userID, req.ShippingAddressID); err != nil {
			return err
		}

		demands := make([]inventory.Demand, 0, len(userCart.Items))
		for _, item := range userCart.Items {
			demands = append(demands, inventory.Demand{
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
			})
		}

		if err := s.inventory.Reserve(tx, demands); err != nil {
			return err
		}

		prices, err := s.snapshotPrices(tx, userCart.Items)
		if err != nil {
			return err
		}

		created = order.Order{
			UserID:            userID,
			Status:            order.StatusCreated,
			Currency:          currency,
			BillingAddressID:  req.BillingAddressID,
			ShippingAddressID: req.ShippingAddressID,
			Metadata:          jsonmap.Map{},
		}
		for _, item := range userCart.Items {
			unitPrice := prices[item.VariantID]
			subtotal := unitPrice * int64(item.Quantity)
			created.Items = append(created.Items, order.OrderItem{
				VariantID:      item.VariantID,
				Quantity:       item.Quantity,
				UnitPriceCents: unitPrice,
				SubtotalCents:  subtotal,
			})
			created.TotalCents += subtotal
		}

		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return s.cart.Clear(tx, userCart.ID)
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (s *Service) snapshotPrices(tx *gorm.DB, items []cart.CartItem) (map[uint]int64, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.VariantID)
	}

	var variants []catalog.ProductVariant
	if err := tx.Where("id IN ?", ids).Find(&variants).Error; err != nil {
		return nil, fmt.Errorf("failed to load variant prices: %w", err)
	}

	prices := make(map[uint]int64, len(variants))
	for _, variant := range variants {
		prices[variant.ID] = variant.PriceCents
	}
	for _, item := range items {
		if _, ok := prices[item.VariantID]; !ok {
			return nil, apperr.IntegrityViolation("cart references missing variant %d", item.VariantID)
		}
	}
	return prices, nil
}

func (s *Service) validateAddress(tx *gorm.DB, userID uint, addressID *uint) error {
	if addressID == nil {
		return nil
	}

	var count int64
	err := tx.Model(&user.Address{}).
		Where("id = ? AND user_id = ?", *addressID, userID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to validate address: %w", err)
	}
	if count == 0 {
		return apperr.NotFound("address", *addressID)
	}
	return nil
}

func normalizeCurrency(currency string) (string, error) {
	if currency == "" {
		return "USD", nil
	}
	currency = strings.ToUpper(currency)
	if len(currency) != 3 {
		return "", apperr.ValidationFailed("currency must be a 3-letter code")
	}
	return currency, nil
}
