// internal/pkg/testdb/testdb.go
//
// Package testdb opens a throwaway Postgres database for integration
// tests. Row-locking behavior cannot be exercised against an embedded
// database, so these tests need a real server; they skip themselves when
// TEST_DATABASE_URL is not set.
package testdb

import (
	"os"
	"testing"

	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/inventory"
	"github.com/your-org/storefront/internal/domain/user"
	postgresdb "github.com/your-org/storefront/internal/infrastructure/database/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New connects to the test database, migrates the full schema and
// truncates all tables. Tests share one database, so they must not run
// against anything holding real data.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database-backed test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	migration := postgresdb.NewMigration(db)
	if err := migration.RunAutoMigrations(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	migration.CreateConstraints()

	Reset(t, db)
	return db
}

// Reset empties every table and restarts the id sequences
func Reset(t *testing.T, db *gorm.DB) {
	t.Helper()

	err := db.Exec(`TRUNCATE TABLE
		order_items, orders,
		cart_items, carts,
		inventory, product_variants, products, categories,
		addresses, users
		RESTART IDENTITY CASCADE`).Error
	if err != nil {
		t.Fatalf("failed to reset test database: %v", err)
	}
}

// SeedUser inserts a user and returns its id
func SeedUser(t *testing.T, db *gorm.DB, email string) uint {
	t.Helper()

	u := user.User{Email: email}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return u.ID
}

// SeedAddress inserts an address owned by the user and returns its id
func SeedAddress(t *testing.T, db *gorm.DB, userID uint) uint {
	t.Helper()

	a := user.Address{
		UserID:     &userID,
		Line1:      "1 Seed Street",
		City:       "Seedville",
		Country:    "US",
		PostalCode: "00001",
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("failed to seed address: %v", err)
	}
	return a.ID
}

// SeedVariant inserts a product with a single variant and its inventory
// row, returning the variant id.
func SeedVariant(t *testing.T, db *gorm.DB, sku string, priceCents int64, available int) uint {
	t.Helper()

	p := catalog.Product{
		SKU:   "PROD-" + sku,
		Title: "Product " + sku,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to seed product %s: %v", sku, err)
	}

	v := catalog.ProductVariant{
		SKU:        sku,
		ProductID:  p.ID,
		PriceCents: priceCents,
	}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("failed to seed variant %s: %v", sku, err)
	}

	inv := inventory.Inventory{
		VariantID: v.ID,
		Available: available,
	}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("failed to seed inventory for %s: %v", sku, err)
	}

	return v.ID
}

// Stock reads the inventory row for a variant
func Stock(t *testing.T, db *gorm.DB, variantID uint) (available, reserved int) {
	t.Helper()

	var inv inventory.Inventory
	if err := db.Where("variant_id = ?", variantID).First(&inv).Error; err != nil {
		t.Fatalf("failed to read inventory for variant %d: %v", variantID, err)
	}
	return inv.Available, inv.Reserved
}
