package controllers

import (
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
)

// VerifyPaymentRequest carries the gateway checkout callback
type VerifyPaymentRequest struct {
	GatewayOrderID string `json:"razorpay_order_id" binding:"required"`
	PaymentID      string `json:"razorpay_payment_id" binding:"required"`
	Signature      string `json:"razorpay_signature" binding:"required"`
}

// InitiatePayment handles POST /v1/user/orders/:id/payment
func (h *Handler) InitiatePayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	placed, err := h.svc.Orders.InitiatePayment(c.Request.Context(), user.ID, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Payment initiated", gin.H{
		"order_id":         placed.Order.ID,
		"gateway_order_id": placed.Order.GatewayOrderID,
		"gateway_key":      placed.GatewayKey,
		"amount":           placed.Order.PayableAmount,
	})
}

// VerifyPayment handles POST /v1/user/orders/:id/payment/verify
func (h *Handler) VerifyPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing payment details")
		return
	}

	order, err := h.svc.Orders.VerifyOnlinePayment(c.Request.Context(), user.ID, id, req.GatewayOrderID, req.PaymentID, req.Signature)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Payment verified successfully", order)
}
