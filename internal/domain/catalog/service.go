// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/pkg/apperr"
	"github.com/your-org/storefront/internal/pkg/jsonmap"
	"github.com/your-org/storefront/internal/pkg/keyset"
	"gorm.io/gorm"
)

const (
	searchMinLength = 2
	searchMaxLength = 100
)

// Service handles catalog read operations
type Service struct {
	db     *gorm.DB
	redis  *redis.Client
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		redis:  redisClient,
		config: cfg,
	}
}

// ListRequest carries the catalog listing filters. All filters are
// optional and combine with AND semantics.
type ListRequest struct {
	Page          keyset.Page
	CategoryID    *uint
	Search        string
	MinPriceCents *int64
	MaxPriceCents *int64
	InStock       bool
}

// ProductSummary is one row of the catalog listing. Price and stock
// figures are aggregated over the product's variants; MinPriceCents is
// nil for a product with no variants yet.
type ProductSummary struct {
	ID             uint      `json:"id"`
	SKU            string    `json:"sku"`
	Title          string    `json:"title"`
	CategoryID     *uint     `json:"category_id"`
	MinPriceCents  *int64    `json:"min_price_cents"`
	VariantCount   int       `json:"variant_count"`
	TotalAvailable int       `json:"total_available"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListResponse is a page of the catalog listing
type ListResponse struct {
	Products   []ProductSummary `json:"products"`
	Pagination keyset.Result    `json:"pagination"`
}

// VariantDetail is one purchasable variant on the product detail view
type VariantDetail struct {
	ID         uint        `json:"id"`
	SKU        string      `json:"sku"`
	PriceCents int64       `json:"price_cents"`
	Attributes jsonmap.Map `json:"attributes"`
	Available  int         `json:"available"`
	InStock    bool        `json:"in_stock"`
}

// ProductDetail is the full product view with all variants
type ProductDetail struct {
	ID             uint            `json:"id"`
	SKU            string          `json:"sku"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	CategoryID     *uint           `json:"category_id"`
	CategoryName   string          `json:"category_name,omitempty"`
	MinPriceCents  *int64          `json:"min_price_cents"`
	MaxPriceCents  *int64          `json:"max_price_cents"`
	TotalAvailable int             `json:"total_available"`
	InStock        bool            `json:"in_stock"`
	Variants       []VariantDetail `json:"variants"`
	CreatedAt      time.Time       `json:"created_at"`
}

// List returns a keyset page of the catalog, ascending by product id.
// The cursor is the last product id of the previous page; a listing
// walked page by page sees every product exactly once even while rows
// are inserted, which offset pagination cannot guarantee.
func (s *Service) List(req *ListRequest) (*ListResponse, error) {
	if req.Search != "" {
		if len(req.Search) < searchMinLength || len(req.Search) > searchMaxLength {
			return nil, apperr.ValidationFailed("search term must be between %d and %d characters",
				searchMinLength, searchMaxLength)
		}
	}

	page := req.Page.Normalize()

	query := s.db.Table("products AS p").
		Select(`p.id, p.sku, p.title, p.category_id, p.created_at,
			MIN(v.price_cents) AS min_price_cents,
			COUNT(v.id) AS variant_count,
			COALESCE(SUM(i.available), 0) AS total_available`).
		Joins("LEFT JOIN product_variants AS v ON v.product_id = p.id").
		Joins("LEFT JOIN inventory AS i ON i.variant_id = v.id").
		Group("p.id")

	if page.After > 0 {
		query = query.Where("p.id > ?", page.After)
	}
	if req.CategoryID != nil {
		query = query.Where("p.category_id = ?", *req.CategoryID)
	}
	if req.Search != "" {
		query = query.Where("p.title ILIKE ?", "%"+req.Search+"%")
	}

	// Price and stock filters aggregate over variants, so they belong
	// in HAVING, not WHERE.
	if req.MinPriceCents != nil {
		query = query.Having("MIN(v.price_cents) >= ?", *req.MinPriceCents)
	}
	if req.MaxPriceCents != nil {
		query = query.Having("MIN(v.price_cents) <= ?", *req.MaxPriceCents)
	}
	if req.InStock {
		query = query.Having("COALESCE(SUM(i.available), 0) > 0")
	}

	var rows []ProductSummary
	// Fetch one row beyond the page to learn whether more exist.
	err := query.Order("p.id ASC").Limit(page.Limit + 1).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var lastID uint
	if len(rows) > 0 {
		lastID = rows[min(len(rows), page.Limit)-1].ID
	}
	pageLen, result := keyset.Trim(len(rows), page.Limit, lastID)

	return &ListResponse{
		Products:   rows[:pageLen],
		Pagination: result,
	}, nil
}

// Get returns the full product detail. Results are cached in Redis for
// a short TTL; the cache is a read-through for the detail page only,
// stock figures may lag by up to the TTL.
func (s *Service) Get(ctx context.Context, productID uint) (*ProductDetail, error) {
	cacheKey := fmt.Sprintf("catalog:product:%d", productID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var detail ProductDetail
			if err := json.Unmarshal([]byte(cached), &detail); err == nil {
				return &detail, nil
			}
		}
	}

	var product Product
	err := s.db.Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variants.id ASC")
		}).
		Preload("Variants.Inventory").
		First(&product, productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("product", productID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	detail := s.toDetail(&product)

	if s.redis != nil {
		if payload, err := json.Marshal(detail); err == nil {
			s.redis.Set(ctx, cacheKey, payload, s.config.Catalog.DetailCacheTTL)
		}
	}

	return detail, nil
}

// InvalidateDetail drops the cached detail view for a product
func (s *Service) InvalidateDetail(ctx context.Context, productID uint) {
	if s.redis != nil {
		s.redis.Del(ctx, fmt.Sprintf("catalog:product:%d", productID))
	}
}

func (s *Service) toDetail(product *Product) *ProductDetail {
	detail := &ProductDetail{
		ID:          product.ID,
		SKU:         product.SKU,
		Title:       product.Title,
		Description: product.Description,
		CategoryID:  product.CategoryID,
		Variants:    make([]VariantDetail, 0, len(product.Variants)),
		CreatedAt:   product.CreatedAt,
	}
	if product.Category != nil {
		detail.CategoryName = product.Category.Name
	}

	for _, variant := range product.Variants {
		available := 0
		if variant.Inventory != nil {
			available = variant.Inventory.Available
		}

		detail.Variants = append(detail.Variants, VariantDetail{
			ID:         variant.ID,
			SKU:        variant.SKU,
			PriceCents: variant.PriceCents,
			Attributes: variant.Attributes,
			Available:  available,
			InStock:    available > 0,
		})

		detail.TotalAvailable += available
		price := variant.PriceCents
		if detail.MinPriceCents == nil || price < *detail.MinPriceCents {
			p := price
			detail.MinPriceCents = &p
		}
		if detail.MaxPriceCents == nil || price > *detail.MaxPriceCents {
			p := price
			detail.MaxPriceCents = &p
		}
	}
	detail.InStock = detail.TotalAvailable > 0

	return detail
}
