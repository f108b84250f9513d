package cart_test

import (
	"testing"

	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/inventory"
	"github.com/your-org/storefront/internal/pkg/apperr"
	"github.com/your-org/storefront/internal/pkg/testdb"
	"gorm.io/gorm"
)

func newCartService(db *gorm.DB) *cart.Service {
	return cart.NewService(db, inventory.NewService(db))
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	db := testdb.New(t)
	svc := newCartService(db)
	userID := testdb.SeedUser(t, db, "cart1@example.com")

	first, err := svc.GetOrCreate(userID)
	if err != nil {
		t.Fatalf("GetOrCreate error = %v", err)
	}
	second, err := svc.GetOrCreate(userID)
	if err != nil {
		t.Fatalf("GetOrCreate error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("GetOrCreate created two carts: %d and %d", first.ID, second.ID)
	}
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	db := testdb.New(t)
	svc := newCartService(db)
	userID := testdb.SeedUser(t, db, "cart2@example.com")
	variantID := testdb.SeedVariant(t, db, "CART-1", 500, 20)

	if _, err := svc.AddItem(userID, &cart.AddItemRequest{VariantID: variantID, Quantity: 2}); err != nil {
		t.Fatalf("AddItem error = %v", err)
	}
	resp, err := svc.AddItem(userID, &cart.AddItemRequest{VariantID: variantID, Quantity: 3})
	if err != nil {
		t.Fatalf("AddItem error = %v", err)
	}

	if len(resp.Items) != 1 {
		t.Fatalf("cart has %d lines, want 1", len(resp.Items))
	}
	if resp.Items[0].Quantity != 5 {
		t.Errorf("line quantity = %d, want 5", resp.Items[0].Quantity)
	}
	if resp.TotalCents != 2500 {
		t.Errorf("total = %d, want 2500", resp.TotalCents)
	}
}

func TestAddItemLineCap(t *testing.T) {
	db := testdb.New(t)
	svc := newCartService(db)
	userID := testdb.SeedUser(t, db, "cart3@example.com")
	variantID := testdb.SeedVariant(t, db, "CART-2", 500, 500)

	if _, err := svc.AddItem(userID, &cart.AddItemRequest{VariantID: variantID, Quantity: cart.MaxLineQuantity}); err != nil {
		t.Fatalf("AddItem at the cap error = %v", err)
	}

	_, err := svc.AddItem(userID, &cart.AddItemRequest{VariantID: variantID, Quantity: 1})
	if !apperr.IsCode(err, apperr.CodeLineCapExceeded) {
		t.Fatalf("AddItem over the cap error = %v, want LINE_CAP_EXCEEDED", err)
	}
}

func TestAddItemUnknownVariant(t *testing.T) {
	db := testdb.New(t)
	svc := newCartService(db)
	userID := testdb.SeedUser(t, db, "cart4@example.com")

	_, err := svc.AddItem(userID, &cart.AddItemRequest{VariantID: 12345, Quantity: 1})
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("AddItem error = %v, want NOT_FOUND", err)
	}
}

func TestAddItemAdvisoryStockCheck(t *testing.T) {
	db := testdb.New(t)
	svc := newCartService(db)
	userID := testdb.SeedUser(t, db, "cart5@example.com")
	variantID := testdb.SeedVariant(t, db, "CART-3", 500, 2)

	_, err := svc.AddItem(userID, &cart.AddItemRequest{VariantID: variantID, Quantity: 5})
	if !apperr.IsCode(err, apperr.CodeOutOfStock) {
		t.Fatalf("AddItem error = %v, want OUT_OF_STOCK", err)
	}
}

func TestUpdateItemZeroRemovesLine(t *testing.T) {
	db := testdb.New(t)
	svc := newCartService(db)
	userID := testdb.SeedUser(t, db, "cart6@example.com")
	variantID := testdb.SeedVariant(t, db, "CART-4", 500, 20)

	resp, err := svc.AddItem(userID, &cart.AddItemRequest{VariantID: variantID, Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem error = %v", err)
	}

	resp, err = svc.UpdateItem(userID, resp.Items[0].ID, &cart.UpdateItemRequest{Quantity: 0})
	if err != nil {
		t.Fatalf("UpdateItem error = %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("cart has %d lines after zero update, want 0", len(resp.Items))
	}
}

func TestUpdateItemSetsAbsoluteQuantity(t *testing.T) {
	db := testdb.New(t)
	svc := newCartService(db)
	userID := testdb.SeedUser(t, db, "cart7@example.com")
	variantID := testdb.SeedVariant(t, db, "CART-5", 500, 20)

	resp, err := svc.AddItem(userID, &cart.AddItemRequest{VariantID: variantID, Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem error = %v", err)
	}

	resp, err = svc.UpdateItem(userID, resp.Items[0].ID, &cart.UpdateItemRequest{Quantity: 7})
	if err != nil {
		t.Fatalf("UpdateItem error = %v", err)
	}
	if resp.Items[0].Quantity != 7 {
		t.Errorf("quantity = %d, want 7 (absolute, not additive)", resp.Items[0].Quantity)
	}
}

func TestRemoveItemChecksOwnership(t *testing.T) {
	db := testdb.New(t)
	svc := newCartService(db)
	owner := testdb.SeedUser(t, db, "cart8@example.com")
	intruder := testdb.SeedUser(t, db, "cart9@example.com")
	variantID := testdb.SeedVariant(t, db, "CART-6", 500, 20)

	resp, err := svc.AddItem(owner, &cart.AddItemRequest{VariantID: variantID, Quantity: 1})
	if err != nil {
		t.Fatalf("AddItem error = %v", err)
	}

	if _, err := svc.RemoveItem(intruder, resp.Items[0].ID); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("RemoveItem by non-owner error = %v, want NOT_FOUND", err)
	}

	ownerCart, err := svc.Get(owner)
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if len(ownerCart.Items) != 1 {
		t.Errorf("owner cart has %d lines, want the line intact", len(ownerCart.Items))
	}
}

func TestTotalsFollowCurrentCatalogPrice(t *testing.T) {
	db := testdb.New(t)
	svc := newCartService(db)
	userID := testdb.SeedUser(t, db, "cart10@example.com")
	variantID := testdb.SeedVariant(t, db, "CART-7", 1000, 20)

	if _, err := svc.AddItem(userID, &cart.AddItemRequest{VariantID: variantID, Quantity: 2}); err != nil {
		t.Fatalf("AddItem error = %v", err)
	}

	// Cart lines store no price; a catalog change shows up on the next read.
	if err := db.Exec("UPDATE product_variants SET price_cents = 1500 WHERE id = ?", variantID).Error; err != nil {
		t.Fatalf("price update failed: %v", err)
	}

	resp, err := svc.Get(userID)
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if resp.TotalCents != 3000 {
		t.Errorf("total = %d, want 3000 at the new price", resp.TotalCents)
	}
}
