// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/inventory"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/user"
	"github.com/your-org/storefront/internal/pkg/jsonmap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: referenced tables first
	models := []interface{}{
		&user.User{},
		&user.Address{},

		&catalog.Category{},
		&catalog.Product{},
		&catalog.ProductVariant{},

		&inventory.Inventory{},

		&cart.Cart{},
		&cart.CartItem{},

		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateConstraints adds the CHECK constraints GORM tags cannot express.
// Stock and money columns must never go negative and quantities must be
// positive; these hold at the database level regardless of application
// bugs. Order status deliberately has no CHECK so new lifecycle states
// need no migration.
func (m *Migration) CreateConstraints() error {
	log.Println("🔄 Creating database check constraints...")

	constraints := []string{
		"ALTER TABLE inventory ADD CONSTRAINT ck_inventory_available CHECK (available >= 0)",
		"ALTER TABLE inventory ADD CONSTRAINT ck_inventory_reserved CHECK (reserved >= 0)",
		"ALTER TABLE product_variants ADD CONSTRAINT ck_variant_price CHECK (price_cents >= 0)",
		"ALTER TABLE cart_items ADD CONSTRAINT ck_cart_item_quantity CHECK (quantity > 0)",
		"ALTER TABLE orders ADD CONSTRAINT ck_order_total CHECK (total_cents >= 0)",
		"ALTER TABLE order_items ADD CONSTRAINT ck_order_item_quantity CHECK (quantity > 0)",
		"ALTER TABLE order_items ADD CONSTRAINT ck_order_item_price CHECK (unit_price_cents >= 0)",
		"ALTER TABLE order_items ADD CONSTRAINT ck_order_item_subtotal CHECK (subtotal_cents >= 0)",
	}

	for _, constraintSQL := range constraints {
		if err := m.db.Exec(constraintSQL).Error; err != nil {
			// Already present on re-run
			log.Printf("⚠️ Skipping constraint: %v", err)
		}
	}

	log.Println("✅ Database check constraints in place")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Catalog listing: keyset walk plus common filters
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_title ON products(title)",
		"CREATE INDEX IF NOT EXISTS idx_product_variants_product ON product_variants(product_id)",

		// Order history: user-scoped descending keyset walk
		"CREATE INDEX IF NOT EXISTS idx_orders_user_id_desc ON orders(user_id, id DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_variant ON order_items(variant_id)",

		// Cart lookups
		"CREATE INDEX IF NOT EXISTS idx_cart_items_variant ON cart_items(variant_id)",

		// Address ownership checks at checkout
		"CREATE INDEX IF NOT EXISTS idx_addresses_user ON addresses(user_id)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := m.seedTestUser(); err != nil {
		return fmt.Errorf("failed to seed test user: %w", err)
	}

	if err := m.seedTestProducts(); err != nil {
		return fmt.Errorf("failed to seed test products: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedCategories creates default product categories
func (m *Migration) seedCategories() error {
	log.Println("🏷️ Seeding categories...")

	categories := []catalog.Category{
		{Name: "Electronics"},
		{Name: "Clothing"},
		{Name: "Books"},
		{Name: "Home & Garden"},
	}

	for _, category := range categories {
		var existing catalog.Category
		result := m.db.Where("name = ?", category.Name).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&category).Error; err != nil {
				return fmt.Errorf("failed to create category %s: %w", category.Name, err)
			}
			log.Printf("Created category: %s", category.Name)
		}
	}

	return nil
}

// seedTestUser creates a test user for development
func (m *Migration) seedTestUser() error {
	log.Println("👤 Seeding test user...")

	email := "test@example.com"

	var existing user.User
	if err := m.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("test123!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	password := string(hashed)

	testUser := user.User{
		Email:          email,
		HashedPassword: &password,
	}
	if err := m.db.Create(&testUser).Error; err != nil {
		return fmt.Errorf("failed to create test user: %w", err)
	}

	address := user.Address{
		UserID:     &testUser.ID,
		Line1:      "123 Test Street",
		City:       "Testville",
		Region:     "CA",
		Country:    "US",
		PostalCode: "94000",
	}
	if err := m.db.Create(&address).Error; err != nil {
		return fmt.Errorf("failed to create test address: %w", err)
	}

	log.Printf("Created test user: %s", email)
	return nil
}

// seedTestProducts creates a small catalog with stocked variants
func (m *Migration) seedTestProducts() error {
	log.Println("📦 Seeding test products...")

	var count int64
	if err := m.db.Model(&catalog.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var electronics catalog.Category
	if err := m.db.Where("name = ?", "Electronics").First(&electronics).Error; err != nil {
		return fmt.Errorf("failed to load category: %w", err)
	}
	var clothing catalog.Category
	if err := m.db.Where("name = ?", "Clothing").First(&clothing).Error; err != nil {
		return fmt.Errorf("failed to load category: %w", err)
	}

	products := []catalog.Product{
		{
			SKU:         "PROD-HEADPHONES",
			Title:       "Wireless Headphones",
			Description: "Over-ear wireless headphones with noise cancellation",
			CategoryID:  &electronics.ID,
			Variants: []catalog.ProductVariant{
				{
					SKU:        "HP-BLACK",
					PriceCents: 19999,
					Attributes: jsonmap.Map{"color": "black"},
				},
				{
					SKU:        "HP-WHITE",
					PriceCents: 20999,
					Attributes: jsonmap.Map{"color": "white"},
				},
			},
		},
		{
			SKU:         "PROD-TSHIRT",
			Title:       "Basic T-Shirt",
			Description: "Plain cotton t-shirt",
			CategoryID:  &clothing.ID,
			Variants: []catalog.ProductVariant{
				{
					SKU:        "TS-M",
					PriceCents: 1099,
					Attributes: jsonmap.Map{"size": "M"},
				},
				{
					SKU:        "TS-L",
					PriceCents: 1099,
					Attributes: jsonmap.Map{"size": "L"},
				},
			},
		},
	}

	for i := range products {
		if err := m.db.Create(&products[i]).Error; err != nil {
			return fmt.Errorf("failed to create product %s: %w", products[i].SKU, err)
		}
		for _, variant := range products[i].Variants {
			inv := inventory.Inventory{
				VariantID: variant.ID,
				Available: 50,
				Reserved:  0,
			}
			if err := m.db.Create(&inv).Error; err != nil {
				return fmt.Errorf("failed to create inventory for %s: %w", variant.SKU, err)
			}
		}
		log.Printf("Created product: %s", products[i].SKU)
	}

	return nil
}
