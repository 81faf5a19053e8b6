package controllers

import (
	"github.com/Govind-619/ScentSphere/services"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ValidatePromoRequest is the body of POST /v1/user/promo/validate.
// Without cart_total the session cart subtotal is used.
type ValidatePromoRequest struct {
	Code      string           `json:"code" binding:"required"`
	CartTotal *decimal.Decimal `json:"cart_total"`
}

// SetPromoActiveRequest is the body of PATCH /v1/admin/promos/:id
type SetPromoActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ValidatePromo handles POST /v1/user/promo/validate
func (h *Handler) ValidatePromo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Promo code is required")
		return
	}

	total := loadCart(c, user.ID).Subtotal()
	if req.CartTotal != nil {
		if req.CartTotal.IsNegative() {
			utils.BadRequest(c, "Cart total cannot be negative")
			return
		}
		total = *req.CartTotal
	}
	utils.LogInfo("Validating promo code %s for user %d against %s", services.NormalizeCode(req.Code), user.ID, utils.FormatMoney(total))

	quote, err := h.svc.Promos.Validate(c.Request.Context(), req.Code, total)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, quote.Message, quote)
}

// CreatePromo handles POST /v1/admin/promos
func (h *Handler) CreatePromo(c *gin.Context) {
	var req services.CreatePromoInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Code and discount type are required")
		return
	}
	promo, err := h.svc.Promos.CreatePromo(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Promo code created successfully", promo)
}

// ListPromos handles GET /v1/admin/promos
func (h *Handler) ListPromos(c *gin.Context) {
	page := utils.NewPagination(c)
	promos, err := h.svc.Promos.ListPromos(c.Request.Context(), page)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, "Promo codes retrieved successfully", promos, page)
}

// SetPromoActive handles PATCH /v1/admin/promos/:id
func (h *Handler) SetPromoActive(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req SetPromoActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "is_active is required")
		return
	}
	if err := h.svc.Promos.SetPromoActive(c.Request.Context(), id, *req.IsActive); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Promo code updated", gin.H{"id": id, "is_active": *req.IsActive})
}
