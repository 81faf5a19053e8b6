package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Govind-619/ScentSphere/cache"
	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductFilter narrows a catalog listing. Zero values mean "no filter".
type ProductFilter struct {
	Search      string
	BrandID     uint
	CategoryID  uint
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
	InStockOnly bool
	SortBy      string
	Order       string
	Page        int
	Limit       int
}

var productSortColumns = map[string]string{
	"created_at": "products.created_at",
	"price":      "(SELECT MIN(v.price) FROM variants v WHERE v.product_id = products.id)",
	"rating":     "products.rating",
	"title":      "products.title",
}

// CatalogService reads products, variants, brands and categories
type CatalogService struct {
	db    *gorm.DB
	cache cache.Store
	ttl   time.Duration
}

func NewCatalogService(db *gorm.DB, store cache.Store, ttl time.Duration) *CatalogService {
	if store == nil {
		store = cache.Noop{}
	}
	return &CatalogService{db: db, cache: store, ttl: ttl}
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("catalog:product:%d", id)
}

// ListProducts returns one page of active products matching filter
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, *utils.Pagination, error) {
	page := utils.NewPage(filter.Page, filter.Limit)
	q := s.db.WithContext(ctx).Model(&models.Product{}).Where("products.is_active = ?", true)

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(products.title) LIKE ? OR LOWER(products.description) LIKE ?", like, like)
	}
	if filter.BrandID != 0 {
		q = q.Where("products.brand_id = ?", filter.BrandID)
	}
	if filter.CategoryID != 0 {
		q = q.Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.MinPrice.IsPositive() {
		q = q.Where("EXISTS (SELECT 1 FROM variants v WHERE v.product_id = products.id AND v.price >= ?)", filter.MinPrice)
	}
	if filter.MaxPrice.IsPositive() {
		q = q.Where("EXISTS (SELECT 1 FROM variants v WHERE v.product_id = products.id AND v.price <= ?)", filter.MaxPrice)
	}
	if filter.InStockOnly {
		q = q.Where("EXISTS (SELECT 1 FROM variants v WHERE v.product_id = products.id AND v.stock_quantity > 0)")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, nil, utils.UpstreamErr(err)
	}
	page.SetTotal(total)

	column, ok := productSortColumns[filter.SortBy]
	if !ok {
		column = productSortColumns["created_at"]
	}
	direction := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		direction = "ASC"
	}

	var products []models.Product
	err := q.Preload("Brand").Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("price ASC") }).
		Order(column + " " + direction).Order("products.id ASC").
		Offset(page.Offset).Limit(page.Limit).
		Find(&products).Error
	if err != nil {
		return nil, nil, utils.UpstreamErr(err)
	}
	return products, page, nil
}

// GetProduct returns an active product with its variants ordered by price
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if s.cache.Get(ctx, productCacheKey(id), &product) {
		return &product, nil
	}

	err := s.db.WithContext(ctx).
		Preload("Brand").Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("price ASC") }).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, utils.UpstreamErr(err)
	}

	if err := s.cache.Set(ctx, productCacheKey(id), product, s.ttl); err != nil {
		utils.LogDebug("Catalog cache set failed for product %d: %v", id, err)
	}
	return &product, nil
}

// Invalidate drops cached copies of the given products
func (s *CatalogService) Invalidate(ctx context.Context, productIDs ...uint) {
	if len(productIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, productCacheKey(id))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		utils.LogError("Catalog cache invalidation failed: %v", err)
	}
}

// SelectVariant picks the variant for sizeLabel. An empty label picks the
// cheapest variant that is in stock.
func SelectVariant(product *models.Product, sizeLabel string) (*models.Variant, error) {
	sizeLabel = strings.TrimSpace(sizeLabel)
	if sizeLabel != "" {
		for i := range product.Variants {
			v := &product.Variants[i]
			if strings.EqualFold(v.SizeLabel, sizeLabel) {
				if !v.InStock() {
					return nil, outOfStock(product.Title, v.SizeLabel, v.StockQuantity, 1)
				}
				return v, nil
			}
		}
		return nil, ErrVariantNotFound
	}

	var best *models.Variant
	for i := range product.Variants {
		v := &product.Variants[i]
		if v.InStock() && (best == nil || v.Price.LessThan(best.Price)) {
			best = v
		}
	}
	if best == nil {
		if len(product.Variants) == 0 {
			return nil, ErrVariantNotFound
		}
		return nil, utils.NewAppError(utils.KindInsufficientStock, fmt.Sprintf("'%s' is out of stock", product.Title), ErrInsufficientStock)
	}
	return best, nil
}

// ListBrands returns active brands by name
func (s *CatalogService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&brands).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	return brands, nil
}

// ListCategories returns active categories by name
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, utils.UpstreamErr(err)
	}
	return categories, nil
}
