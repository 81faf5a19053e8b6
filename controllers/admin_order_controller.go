package controllers

import (
	"fmt"

	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest is the body of PUT /v1/admin/orders/:id/status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=shipped delivered cancelled"`
	Note   string `json:"note"`
}

// ReviewPaymentRequest is the body of POST /v1/admin/orders/:id/payment/review
type ReviewPaymentRequest struct {
	Action string `json:"action" binding:"required,oneof=confirm reject"`
	Note   string `json:"note"`
}

// AdminListOrders handles GET /v1/admin/orders
func (h *Handler) AdminListOrders(c *gin.Context) {
	page := utils.NewPagination(c)
	orders, err := h.svc.Orders.ListAllOrders(c.Request.Context(), c.Query("status"), page)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, "Orders retrieved successfully", orders, page)
}

// AdminGetOrder handles GET /v1/admin/orders/:id
func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.svc.Orders.GetOrder(c.Request.Context(), 0, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Order retrieved successfully", order)
}

// UpdateOrderStatus handles PUT /v1/admin/orders/:id/status
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	admin, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Status must be shipped, delivered or cancelled")
		return
	}

	order, err := h.svc.Orders.UpdateOrderStatus(c.Request.Context(), id, req.Status, req.Note)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogInfo("Admin %d set order %d to %s", admin.ID, id, order.Status)
	utils.Success(c, "Order status updated successfully", order)
}

// ReviewOrderPayment handles POST /v1/admin/orders/:id/payment/review
func (h *Handler) ReviewOrderPayment(c *gin.Context) {
	admin, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ReviewPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Action must be confirm or reject")
		return
	}

	result, err := h.svc.Orders.ReviewPayment(c.Request.Context(), &admin, id, req.Action, req.Note)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	message := fmt.Sprintf("Payment %s", result.Order.PaymentStatus)
	if result.AlreadyProcessed {
		message = fmt.Sprintf("Payment was already %s", result.Order.PaymentStatus)
	}
	utils.Success(c, message, result)
}
