// internal/domain/cart/service.go
package cart

import (
	"fmt"

	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/inventory"
	"github.com/your-org/storefront/internal/pkg/apperr"
	"github.com/your-org/storefront/internal/pkg/jsonmap"
	"gorm.io/gorm"
)

// Service handles cart business logic. Carts are server-side state keyed
// by user id; prices are never stored on cart lines, every read derives
// totals from the current catalog.
type Service struct {
	db        *gorm.DB
	inventory *inventory.Service
}

// NewService creates a new cart service
func NewService(db *gorm.DB, inventoryService *inventory.Service) *Service {
	return &Service{
		db:        db,
		inventory: inventoryService,
	}
}

// AddItemRequest represents a request to add a variant to the cart
type AddItemRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest sets an absolute quantity for a cart line. Zero
// removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// CartItemResponse is one cart line priced against the current catalog
type CartItemResponse struct {
	ID             uint        `json:"id"`
	VariantID      uint        `json:"variant_id"`
	ProductID      uint        `json:"product_id"`
	ProductTitle   string      `json:"product_title"`
	SKU            string      `json:"sku"`
	Attributes     jsonmap.Map `json:"attributes"`
	Quantity       int         `json:"quantity"`
	UnitPriceCents int64       `json:"unit_price_cents"`
	SubtotalCents  int64       `json:"subtotal_cents"`
	Available      int         `json:"available"`
}

// CartResponse represents the cart with derived totals
type CartResponse struct {
	ID         uint               `json:"id"`
	UserID     uint               `json:"user_id"`
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalCents int64              `json:"total_cents"`
}

// GetOrCreate returns the user's cart, creating the row on first access.
func (s *Service) GetOrCreate(userID uint) (*Cart, error) {
	var cart Cart
	err := s.db.Where("user_id = ?", userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id ASC")
		}).
		Preload("Items.Variant").
		Preload("Items.Variant.Product").
		Preload("Items.Variant.Inventory").
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart = Cart{UserID: userID}
	if err := s.db.Create(&cart).Error; err != nil {
		// Lost a create race with a concurrent request for the same
		// user; the unique index on user_id guarantees one winner.
		var existing Cart
		if lookupErr := s.db.Where("user_id = ?", userID).First(&existing).Error; lookupErr == nil {
			return s.GetOrCreate(userID)
		}
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	cart.Items = []CartItem{}
	return &cart, nil
}

// Get returns the user's cart with derived totals.
func (s *Service) Get(userID uint) (*CartResponse, error) {
	cart, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(cart), nil
}

// AddItem adds a variant to the cart or increments the existing line.
// The stock check here is advisory only; checkout re-validates under
// row locks.
func (s *Service) AddItem(userID uint, req *AddItemRequest) (*CartResponse, error) {
	if req.Quantity <= 0 {
		return nil, apperr.ValidationFailed("quantity must be positive")
	}
	if req.Quantity > MaxLineQuantity {
		return nil, apperr.LineCapExceeded(MaxLineQuantity, req.Quantity)
	}

	var variant catalog.ProductVariant
	if err := s.db.First(&variant, req.VariantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("variant", req.VariantID)
		}
		return nil, fmt.Errorf("failed to load variant: %w", err)
	}

	cart, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	var item CartItem
	err = s.db.Where("cart_id = ? AND variant_id = ?", cart.ID, req.VariantID).First(&item).Error
	switch {
	case err == nil:
		newQuantity := item.Quantity + req.Quantity
		if newQuantity > MaxLineQuantity {
			return nil, apperr.LineCapExceeded(MaxLineQuantity, newQuantity)
		}
		if err := s.checkStock(req.VariantID, newQuantity); err != nil {
			return nil, err
		}
		if err := s.db.Model(&item).Update("quantity", newQuantity).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	case err == gorm.ErrRecordNotFound:
		if err := s.checkStock(req.VariantID, req.Quantity); err != nil {
			return nil, err
		}
		item = CartItem{
			CartID:    cart.ID,
			VariantID: req.VariantID,
			Quantity:  req.Quantity,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}

	return s.Get(userID)
}

// UpdateItem sets the absolute quantity of a cart line. Quantity zero
// removes the line.
func (s *Service) UpdateItem(userID uint, itemID uint, req *UpdateItemRequest) (*CartResponse, error) {
	if req.Quantity < 0 {
		return nil, apperr.ValidationFailed("quantity must not be negative")
	}
	if req.Quantity > MaxLineQuantity {
		return nil, apperr.LineCapExceeded(MaxLineQuantity, req.Quantity)
	}

	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Quantity == 0 {
		if err := s.db.Delete(item).Error; err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
		return s.Get(userID)
	}

	if err := s.checkStock(item.VariantID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.db.Model(item).Update("quantity", req.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return s.Get(userID)
}

// RemoveItem deletes a cart line owned by the user.
func (s *Service) RemoveItem(userID uint, itemID uint) (*CartResponse, error) {
	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Delete(item).Error; err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return s.Get(userID)
}

// Clear deletes all lines of the cart inside the given transaction. The
// cart row itself stays.
func (s *Service) Clear(tx *gorm.DB, cartID uint) error {
	if err := tx.Where("cart_id = ?", cartID).Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// ownedItem loads a cart line and verifies it belongs to the user's
// cart. Lines in other users' carts are indistinguishable from missing.
func (s *Service) ownedItem(userID uint, itemID uint) (*CartItem, error) {
	var item CartItem
	err := s.db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("cart item", itemID)
		}
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	return &item, nil
}

func (s *Service) checkStock(variantID uint, quantity int) error {
	inv, err := s.inventory.Get(variantID)
	if err != nil {
		return err
	}
	if inv.Available < quantity {
		return apperr.OutOfStock(variantID, inv.Available, quantity)
	}
	return nil
}

func (s *Service) toResponse(cart *Cart) *CartResponse {
	resp := &CartResponse{
		ID:     cart.ID,
		UserID: cart.UserID,
		Items:  make([]CartItemResponse, 0, len(cart.Items)),
	}

	for _, item := range cart.Items {
		line := CartItemResponse{
			ID:        item.ID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		}
		if item.Variant != nil {
			line.ProductID = item.Variant.ProductID
			line.SKU = item.Variant.SKU
			line.Attributes = item.Variant.Attributes
			line.UnitPriceCents = item.Variant.PriceCents
			line.SubtotalCents = item.Variant.PriceCents * int64(item.Quantity)
			if item.Variant.Product != nil {
				line.ProductTitle = item.Variant.Product.Title
			}
			if item.Variant.Inventory != nil {
				line.Available = item.Variant.Inventory.Available
			}
		}
		resp.Items = append(resp.Items, line)
		resp.TotalItems += item.Quantity
		resp.TotalCents += line.SubtotalCents
	}

	return resp
}
