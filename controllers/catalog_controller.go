package controllers

import (
	"strconv"
	"strings"

	"github.com/Govind-619/ScentSphere/services"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListProducts handles GET /v1/products with search, filters, sorting and pagination
func (h *Handler) ListProducts(c *gin.Context) {
	page := utils.NewPagination(c)
	filter := services.ProductFilter{
		Search:      strings.TrimSpace(c.Query("search")),
		InStockOnly: c.Query("in_stock") == "true",
		SortBy:      c.DefaultQuery("sort_by", "created_at"),
		Order:       c.DefaultQuery("order", "desc"),
		Page:        page.Page,
		Limit:       page.Limit,
	}
	if v := c.Query("brand_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			utils.BadRequest(c, "Invalid brand_id")
			return
		}
		filter.BrandID = uint(id)
	}
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			utils.BadRequest(c, "Invalid category_id")
			return
		}
		filter.CategoryID = uint(id)
	}
	for param, dest := range map[string]*decimal.Decimal{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		if v := c.Query(param); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil || d.IsNegative() {
				utils.BadRequest(c, "Invalid "+param)
				return
			}
			*dest = d
		}
	}

	products, p, err := h.svc.Catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, "Products retrieved successfully", products, p)
}

// GetProduct handles GET /v1/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	product, err := h.svc.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Product retrieved successfully", product)
}

// ListBrands handles GET /v1/brands
func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.svc.Catalog.ListBrands(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Brands retrieved successfully", brands)
}

// ListCategories handles GET /v1/categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.svc.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Categories retrieved successfully", categories)
}
