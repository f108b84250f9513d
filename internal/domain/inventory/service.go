// internal/domain/inventory/service.go
package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/your-org/storefront/internal/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Demand is one (variant, quantity) entry of a reservation request.
type Demand struct {
	VariantID uint
	Quantity  int
}

// Service implements the stock accounting protocol. All mutating methods
// run inside a caller-supplied transaction: the caller owns the commit or
// rollback, so a reservation and the order it backs either persist
// together or not at all. Locks are released implicitly at transaction
// end; there is no explicit release call in the success path.
type Service struct {
	db *gorm.DB
}

// NewService creates a new inventory service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Reserve atomically moves stock from available to reserved for every
// demand, or changes nothing.
//
// Inventory rows are locked FOR UPDATE in ascending variant id order.
// The ordering is the deadlock-prevention invariant: two concurrent
// checkouts with overlapping variant sets always acquire the shared rows
// in the same order, so one blocks and the other proceeds — they can
// never circular-wait. A checkout blocked here re-reads the row after
// the lock holder commits and fails cleanly if the stock is gone.
func (s *Service) Reserve(tx *gorm.DB, demands []Demand) error {
	demands, err := normalizeDemands(demands)
	if err != nil {
		return err
	}

	rows, err := s.lockRows(tx, demands)
	if err != nil {
		return err
	}

	// Validate the full demand set before touching anything.
	for _, d := range demands {
		row, ok := rows[d.VariantID]
		if !ok {
			// Every variant must have exactly one inventory row; a
			// missing row is a broken schema guarantee, not a stock
			// condition.
			return apperr.IntegrityViolation("inventory row missing for variant %d", d.VariantID)
		}
		if row.Available < d.Quantity {
			return apperr.OutOfStock(d.VariantID, row.Available, d.Quantity)
		}
	}

	now := time.Now().UTC()
	for _, d := range demands {
		result := tx.Model(&Inventory{}).
			Where("variant_id = ?", d.VariantID).
			Updates(map[string]interface{}{
				"available":       gorm.Expr("available - ?", d.Quantity),
				"reserved":        gorm.Expr("reserved + ?", d.Quantity),
				"last_updated_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to reserve stock for variant %d: %w", d.VariantID, result.Error)
		}
	}

	return nil
}

// Consume finalizes reservations after an order is paid: reserved units
// leave the books entirely. Same locking discipline as Reserve.
func (s *Service) Consume(tx *gorm.DB, demands []Demand) error {
	return s.drainReserved(tx, demands, false)
}

// Release returns reserved units to available stock after an order is
// cancelled. Same locking discipline as Reserve.
func (s *Service) Release(tx *gorm.DB, demands []Demand) error {
	return s.drainReserved(tx, demands, true)
}

// Get returns the inventory row for a variant, without locking. Used by
// advisory read paths only; checkout never trusts an unlocked read.
func (s *Service) Get(variantID uint) (*Inventory, error) {
	var inv Inventory
	if err := s.db.Where("variant_id = ?", variantID).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.IntegrityViolation("inventory row missing for variant %d", variantID)
		}
		return nil, fmt.Errorf("failed to read inventory for variant %d: %w", variantID, err)
	}
	return &inv, nil
}

func (s *Service) drainReserved(tx *gorm.DB, demands []Demand, restock bool) error {
	demands, err := normalizeDemands(demands)
	if err != nil {
		return err
	}

	rows, err := s.lockRows(tx, demands)
	if err != nil {
		return err
	}

	for _, d := range demands {
		row, ok := rows[d.VariantID]
		if !ok {
			return apperr.IntegrityViolation("inventory row missing for variant %d", d.VariantID)
		}
		if row.Reserved < d.Quantity {
			return apperr.IntegrityViolation("reserved stock for variant %d is %d, expected at least %d",
				d.VariantID, row.Reserved, d.Quantity)
		}
	}

	now := time.Now().UTC()
	for _, d := range demands {
		updates := map[string]interface{}{
			"reserved":        gorm.Expr("reserved - ?", d.Quantity),
			"last_updated_at": now,
		}
		if restock {
			updates["available"] = gorm.Expr("available + ?", d.Quantity)
		}

		result := tx.Model(&Inventory{}).
			Where("variant_id = ?", d.VariantID).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update reserved stock for variant %d: %w", d.VariantID, result.Error)
		}
	}

	return nil
}

// lockRows acquires FOR UPDATE locks on the inventory rows of all
// demanded variants, in ascending variant id order.
func (s *Service) lockRows(tx *gorm.DB, demands []Demand) (map[uint]Inventory, error) {
	ids := make([]uint, len(demands))
	for i, d := range demands {
		ids[i] = d.VariantID
	}

	var locked []Inventory
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("variant_id IN ?", ids).
		Order("variant_id ASC").
		Find(&locked).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory rows: %w", err)
	}

	rows := make(map[uint]Inventory, len(locked))
	for _, row := range locked {
		rows[row.VariantID] = row
	}
	return rows, nil
}

// normalizeDemands rejects non-positive quantities, merges duplicate
// variant entries and returns the set sorted by ascending variant id so
// every caller locks in the same global order.
func normalizeDemands(demands []Demand) ([]Demand, error) {
	if len(demands) == 0 {
		return nil, apperr.ValidationFailed("reservation demand set is empty")
	}

	merged := make(map[uint]int, len(demands))
	for _, d := range demands {
		if d.Quantity <= 0 {
			return nil, apperr.ValidationFailed("demand quantity for variant %d must be positive", d.VariantID)
		}
		merged[d.VariantID] += d.Quantity
	}

	out := make([]Demand, 0, len(merged))
	for id, qty := range merged {
		out = append(out, Demand{VariantID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VariantID < out[j].VariantID })
	return out, nil
}
