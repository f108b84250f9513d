package catalog_test

import (
	"context"
	"testing"

	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/inventory"
	"github.com/your-org/storefront/internal/pkg/apperr"
	"github.com/your-org/storefront/internal/pkg/jsonmap"
	"github.com/your-org/storefront/internal/pkg/keyset"
	"github.com/your-org/storefront/internal/pkg/testdb"
	"gorm.io/gorm"
)

// newCatalog trades Redis away: with a nil client the detail view reads
// straight from the database, which is what these tests assert on.
func newCatalog(db *gorm.DB) *catalog.Service {
	return catalog.NewService(db, nil, &config.Config{})
}

// seedProduct inserts a product with variants at the given prices and
// stock levels, returning the product id.
func seedProduct(t *testing.T, db *gorm.DB, sku string, categoryID *uint, prices []int64, stock []int) uint {
	t.Helper()

	p := catalog.Product{SKU: sku, Title: "Product " + sku, CategoryID: categoryID}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to seed product %s: %v", sku, err)
	}

	for i, price := range prices {
		v := catalog.ProductVariant{
			SKU:        sku + "-V" + string(rune('A'+i)),
			ProductID:  p.ID,
			PriceCents: price,
			Attributes: jsonmap.Map{"idx": i},
		}
		if err := db.Create(&v).Error; err != nil {
			t.Fatalf("failed to seed variant: %v", err)
		}
		inv := inventory.Inventory{VariantID: v.ID, Available: stock[i]}
		if err := db.Create(&inv).Error; err != nil {
			t.Fatalf("failed to seed inventory: %v", err)
		}
	}

	return p.ID
}

func seedCategory(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	c := catalog.Category{Name: name}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return c.ID
}

func TestListAggregatesVariants(t *testing.T) {
	db := testdb.New(t)
	svc := newCatalog(db)
	seedProduct(t, db, "AGG-1", nil, []int64{1500, 900}, []int{3, 4})

	resp, err := svc.List(&catalog.ListRequest{})
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if len(resp.Products) != 1 {
		t.Fatalf("got %d products, want 1", len(resp.Products))
	}

	p := resp.Products[0]
	if p.MinPriceCents == nil || *p.MinPriceCents != 900 {
		t.Errorf("min price = %v, want 900", p.MinPriceCents)
	}
	if p.VariantCount != 2 {
		t.Errorf("variant count = %d, want 2", p.VariantCount)
	}
	if p.TotalAvailable != 7 {
		t.Errorf("total available = %d, want 7", p.TotalAvailable)
	}
}

func TestListKeysetWalkIsComplete(t *testing.T) {
	db := testdb.New(t)
	svc := newCatalog(db)

	var want []uint
	for _, sku := range []string{"WALK-1", "WALK-2", "WALK-3", "WALK-4", "WALK-5"} {
		want = append(want, seedProduct(t, db, sku, nil, []int64{1000}, []int{1}))
	}

	var seen []uint
	req := &catalog.ListRequest{Page: keyset.Page{Limit: 2}}
	for {
		resp, err := svc.List(req)
		if err != nil {
			t.Fatalf("List error = %v", err)
		}
		for _, p := range resp.Products {
			seen = append(seen, p.ID)
		}
		if !resp.Pagination.HasMore {
			break
		}
		req.Page.After = resp.Pagination.Cursor
	}

	if len(seen) != len(want) {
		t.Fatalf("walk visited %d products, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("walk = %v, want %v ascending", seen, want)
		}
	}
}

func TestListFilters(t *testing.T) {
	db := testdb.New(t)
	svc := newCatalog(db)
	shoesCat := seedCategory(t, db, "Shoes")
	hatsCat := seedCategory(t, db, "Hats")

	seedProduct(t, db, "FLT-RUNNER", &shoesCat, []int64{5000}, []int{5})
	seedProduct(t, db, "FLT-SANDAL", &shoesCat, []int64{1500}, []int{0})
	seedProduct(t, db, "FLT-BEANIE", &hatsCat, []int64{800}, []int{9})

	// Category filter.
	resp, err := svc.List(&catalog.ListRequest{CategoryID: &shoesCat})
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if len(resp.Products) != 2 {
		t.Errorf("category filter: got %d products, want 2", len(resp.Products))
	}

	// In-stock filter drops the sold-out sandal.
	resp, err = svc.List(&catalog.ListRequest{CategoryID: &shoesCat, InStock: true})
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].SKU != "FLT-RUNNER" {
		t.Errorf("in-stock filter: got %+v, want only FLT-RUNNER", resp.Products)
	}

	// Price band on the variant minimum.
	minPrice, maxPrice := int64(1000), int64(2000)
	resp, err = svc.List(&catalog.ListRequest{MinPriceCents: &minPrice, MaxPriceCents: &maxPrice})
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].SKU != "FLT-SANDAL" {
		t.Errorf("price filter: got %+v, want only FLT-SANDAL", resp.Products)
	}

	// Title search, case-insensitive substring.
	resp, err = svc.List(&catalog.ListRequest{Search: "bean"})
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0].SKU != "FLT-BEANIE" {
		t.Errorf("search filter: got %+v, want only FLT-BEANIE", resp.Products)
	}
}

func TestListSearchLengthValidation(t *testing.T) {
	db := testdb.New(t)
	svc := newCatalog(db)

	for _, search := range []string{"a", string(make([]byte, 101))} {
		_, err := svc.List(&catalog.ListRequest{Search: search})
		if !apperr.IsCode(err, apperr.CodeValidationFailed) {
			t.Errorf("List(search len %d) error = %v, want VALIDATION_FAILED", len(search), err)
		}
	}
}

func TestGetProductDetail(t *testing.T) {
	db := testdb.New(t)
	svc := newCatalog(db)
	cat := seedCategory(t, db, "Detail")
	productID := seedProduct(t, db, "DET-1", &cat, []int64{2000, 3500}, []int{0, 6})

	detail, err := svc.Get(context.Background(), productID)
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}

	if detail.CategoryName != "Detail" {
		t.Errorf("category name = %q, want Detail", detail.CategoryName)
	}
	if detail.MinPriceCents == nil || *detail.MinPriceCents != 2000 {
		t.Errorf("min price = %v, want 2000", detail.MinPriceCents)
	}
	if detail.MaxPriceCents == nil || *detail.MaxPriceCents != 3500 {
		t.Errorf("max price = %v, want 3500", detail.MaxPriceCents)
	}
	if detail.TotalAvailable != 6 {
		t.Errorf("total available = %d, want 6", detail.TotalAvailable)
	}
	if !detail.InStock {
		t.Error("in stock = false, want true")
	}
	if len(detail.Variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(detail.Variants))
	}
	if detail.Variants[0].InStock {
		t.Error("sold-out variant reported in stock")
	}
}

func TestGetProductNotFound(t *testing.T) {
	db := testdb.New(t)
	svc := newCatalog(db)

	_, err := svc.Get(context.Background(), 9999)
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("Get error = %v, want NOT_FOUND", err)
	}
}
