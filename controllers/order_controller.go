package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/services"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the checkout body. Items default to the session cart.
// Multipart requests carry it as JSON in the "order" field next to a "proof" file.
type CreateOrderRequest struct {
	Items           []services.OrderLine `json:"items"`
	PromoCode       string               `json:"promo_code"`
	PaymentMethod   string               `json:"payment_method" binding:"required"`
	WalletDeduction decimal.Decimal      `json:"wallet_deduction"`
	ShippingInfo    models.ShippingInfo  `json:"shipping_info"`
	ClientTotal     *decimal.Decimal     `json:"client_total"`
}

// CancelOrderRequest is the body of POST /v1/user/orders/:id/cancel
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

func bindOrderRequest(c *gin.Context) (*CreateOrderRequest, error) {
	var req CreateOrderRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := json.Unmarshal([]byte(c.PostForm("order")), &req); err != nil {
			return nil, err
		}
		if err := binding.Validator.ValidateStruct(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *Handler) orderInput(c *gin.Context, userID uint, req *CreateOrderRequest) services.PlaceOrderInput {
	items := req.Items
	if len(items) == 0 {
		items = loadCart(c, userID).Lines()
	}
	return services.PlaceOrderInput{
		UserID:          userID,
		Items:           items,
		PromoCode:       req.PromoCode,
		PaymentMethod:   strings.ToLower(strings.TrimSpace(req.PaymentMethod)),
		WalletDeduction: req.WalletDeduction,
		ShippingInfo:    req.ShippingInfo,
		ClientTotal:     req.ClientTotal,
	}
}

// CreateOrder handles POST /v1/user/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.LogInfo("CreateOrder called for user %d", user.ID)

	req, err := bindOrderRequest(c)
	if err != nil {
		utils.LogError("Invalid order request for user %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid order request. Payment method and shipping details are required")
		return
	}
	input := h.orderInput(c, user.ID, req)

	var proofPath string
	if models.RequiresProof(input.PaymentMethod) {
		url, path, ok := h.uploadProof(c, user.ID)
		if !ok {
			return
		}
		input.ProofURL, proofPath = url, path
	}

	placed, err := h.svc.Orders.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		h.discardProof(c, proofPath)
		utils.RespondError(c, err)
		return
	}

	cart := loadCart(c, user.ID)
	cart.Clear()
	if err := saveCart(c, user.ID, cart); err != nil {
		utils.LogError("Failed to clear cart for user %d: %v", user.ID, err)
	}

	data := gin.H{"order": placed.Order}
	if placed.GatewayKey != "" {
		data["gateway_key"] = placed.GatewayKey
		data["gateway_order_id"] = placed.Order.GatewayOrderID
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":   "success",
		"success":  true,
		"order_id": placed.Order.ID,
		"message":  utils.MsgOrderPlaced,
		"data":     data,
	})
}

// QuoteOrder handles POST /v1/user/orders/quote and prices a checkout without placing it
func (h *Handler) QuoteOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Payment method is required")
		return
	}
	input := h.orderInput(c, user.ID, &req)
	// the proof is uploaded with the order itself
	if models.RequiresProof(input.PaymentMethod) {
		input.ProofURL = "pending-upload"
	}

	quote, err := h.svc.Orders.Quote(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Order summary", quote)
}

// ListOrders handles GET /v1/user/orders
func (h *Handler) ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	page := utils.NewPagination(c)
	orders, err := h.svc.Orders.ListOrders(c.Request.Context(), user.ID, c.Query("status"), page)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, "Orders retrieved successfully", orders, page)
}

// GetOrder handles GET /v1/user/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.svc.Orders.GetOrder(c.Request.Context(), user.ID, id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Order retrieved successfully", order)
}

// CancelOrder handles POST /v1/user/orders/:id/cancel
func (h *Handler) CancelOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "Invalid cancellation request")
		return
	}

	order, err := h.svc.Orders.CancelOrder(c.Request.Context(), user.ID, id, req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogInfo("User %d cancelled order %d", user.ID, id)
	utils.Success(c, "Order cancelled successfully", order)
}
