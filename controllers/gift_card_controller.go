package controllers

import (
	"github.com/Govind-619/ScentSphere/services"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PurchaseGiftCardRequest is the body of POST /v1/user/gift-cards
type PurchaseGiftCardRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	RecipientEmail string          `json:"recipient_email"`
	Message        string          `json:"message"`
}

// RedeemGiftCardRequest is the body of POST /v1/user/gift-cards/redeem
type RedeemGiftCardRequest struct {
	Code string `json:"code" binding:"required"`
}

// PurchaseGiftCard handles POST /v1/user/gift-cards
func (h *Handler) PurchaseGiftCard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req PurchaseGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Amount is required")
		return
	}

	gift, err := h.svc.GiftCodes.Purchase(c.Request.Context(), services.PurchaseGiftInput{
		UserID:         user.ID,
		SenderEmail:    user.Email,
		Amount:         req.Amount,
		RecipientEmail: req.RecipientEmail,
		Message:        req.Message,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, utils.MsgGiftCardPurchased, gin.H{
		"code":   gift.Code,
		"amount": gift.Amount,
		"gift":   gift,
	})
}

// RedeemGiftCard handles POST /v1/user/gift-cards/redeem
func (h *Handler) RedeemGiftCard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req RedeemGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Gift card code is required")
		return
	}

	gift, err := h.svc.GiftCodes.Redeem(c.Request.Context(), user.ID, req.Code)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, utils.MsgGiftCardRedeemed, gin.H{
		"amount": gift.Amount,
	})
}

// ListGiftCards handles GET /v1/user/gift-cards
func (h *Handler) ListGiftCards(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	gifts, err := h.svc.GiftCodes.ListPurchased(c.Request.Context(), user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Gift cards retrieved successfully", gifts)
}
