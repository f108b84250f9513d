// internal/domain/order/service.go
package order

import (
	"fmt"

	"github.com/your-org/storefront/internal/domain/inventory"
	"github.com/your-org/storefront/internal/pkg/apperr"
	"github.com/your-org/storefront/internal/pkg/keyset"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles order queries and lifecycle transitions
type Service struct {
	db        *gorm.DB
	inventory *inventory.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, inventoryService *inventory.Service) *Service {
	return &Service{
		db:        db,
		inventory: inventoryService,
	}
}

// PayRequest records a completed payment against an order
type PayRequest struct {
	PaymentProviderID string `json:"payment_provider_id" binding:"required"`
}

// ListResponse is a page of the user's order history
type ListResponse struct {
	Orders     []Order       `json:"orders"`
	Pagination keyset.Result `json:"pagination"`
}

// List returns the user's orders newest first, keyset paginated. The
// cursor is the last order id of the previous page and the walk is
// descending, so ids below the cursor come next.
func (s *Service) List(userID uint, page keyset.Page) (*ListResponse, error) {
	page = page.Normalize()

	query := s.db.Where("user_id = ?", userID)
	if page.After > 0 {
		query = query.Where("id < ?", page.After)
	}

	var orders []Order
	err := query.Order("id DESC").
		Limit(page.Limit + 1).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.id ASC")
		}).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	var lastID uint
	if len(orders) > 0 {
		lastID = orders[min(len(orders), page.Limit)-1].ID
	}
	pageLen, result := keyset.Trim(len(orders), page.Limit, lastID)

	return &ListResponse{
		Orders:     orders[:pageLen],
		Pagination: result,
	}, nil
}

// Get returns one order with its items, scoped to the owning user.
// Another user's order id is indistinguishable from a missing one.
func (s *Service) Get(userID uint, orderID uint) (*Order, error) {
	var order Order
	err := s.db.Where("id = ? AND user_id = ?", orderID, userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.id ASC")
		}).
		Preload("Items.Variant").
		Preload("Items.Variant.Product").
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("order", orderID)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// MarkPaid transitions a created order to paid and consumes its
// reservations. The order row is locked for the duration so a pay and
// a cancel racing on the same order serialize.
func (s *Service) MarkPaid(userID uint, orderID uint, req *PayRequest) (*Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOwned(tx, userID, orderID)
		if err != nil {
			return err
		}
		if order.Status != StatusCreated {
			return apperr.ValidationFailed("order %d is %s, only created orders can be paid", orderID, order.Status)
		}

		if err := s.inventory.Consume(tx, s.demands(order)); err != nil {
			return err
		}

		return tx.Model(order).Updates(map[string]interface{}{
			"status":              StatusPaid,
			"payment_provider_id": req.PaymentProviderID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(userID, orderID)
}

// Cancel transitions a created order to cancelled and returns its
// reserved units to available stock.
func (s *Service) Cancel(userID uint, orderID uint) (*Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOwned(tx, userID, orderID)
		if err != nil {
			return err
		}
		if order.Status != StatusCreated {
			return apperr.ValidationFailed("order %d is %s, only created orders can be cancelled", orderID, order.Status)
		}

		if err := s.inventory.Release(tx, s.demands(order)); err != nil {
			return err
		}

		return tx.Model(order).Update("status", StatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(userID, orderID)
}

func (s *Service) lockOwned(tx *gorm.DB, userID uint, orderID uint) (*Order, error) {
	var order Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("order", orderID)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := tx.Where("order_id = ?", order.ID).Order("id ASC").Find(&order.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	return &order, nil
}

func (s *Service) demands(order *Order) []inventory.Demand {
	demands := make([]inventory.Demand, 0, len(order.Items))
	for _, item := range order.Items {
		demands = append(demands, inventory.Demand{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	return demands
}
