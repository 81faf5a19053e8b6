package controllers

import (
	"fmt"
	"net/http"

	"github.com/Govind-619/ScentSphere/services"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AddToCartRequest is the body of POST /v1/user/cart
type AddToCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateCartRequest is the body of PUT /v1/user/cart/:item_id
type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

func cartKey(userID uint) string {
	return fmt.Sprintf("%s:%d", utils.CartSessionKey, userID)
}

// loadCart reads the caller's cart from the session
func loadCart(c *gin.Context, userID uint) *services.Cart {
	raw, _ := sessions.Default(c).Get(cartKey(userID)).(string)
	return services.LoadCart(raw)
}

// saveCart writes the cart back to the session cookie
func saveCart(c *gin.Context, userID uint, cart *services.Cart) error {
	data, err := cart.Encode()
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	if len(cart.Items) == 0 {
		session.Delete(cartKey(userID))
	} else {
		session.Set(cartKey(userID), data)
	}
	return session.Save()
}

func cartResponse(cart *services.Cart) gin.H {
	items := cart.Items
	if items == nil {
		items = []services.CartItem{}
	}
	return gin.H{
		"items":    items,
		"count":    cart.Count(),
		"subtotal": cart.Subtotal(),
	}
}

// GetCart handles GET /v1/user/cart
func (h *Handler) GetCart(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.Success(c, "Cart retrieved successfully", cartResponse(loadCart(c, user.ID)))
}

// AddToCart handles POST /v1/user/cart
func (h *Handler) AddToCart(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid add to cart request for user %d: %v", user.ID, err)
		utils.BadRequest(c, "Product and a quantity of at least 1 are required")
		return
	}

	product, err := h.svc.Catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	variant, err := services.SelectVariant(product, req.Size)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	cart := loadCart(c, user.ID)
	id := services.CartItemID(product.ID, variant.ID)
	inCart := 0
	for _, item := range cart.Items {
		if item.ID == id {
			inCart = item.Quantity
		}
	}
	if inCart+req.Quantity > variant.StockQuantity {
		utils.Error(c, http.StatusConflict, utils.KindInsufficientStock, fmt.Sprintf("Only %d left of '%s' (%s)", variant.StockQuantity, product.Title, variant.SizeLabel))
		return
	}

	if err := cart.Add(services.CartItem{
		ID:        id,
		ProductID: product.ID,
		VariantID: variant.ID,
		Name:      product.Title,
		SizeLabel: variant.SizeLabel,
		UnitPrice: variant.Price,
		Image:     product.FirstImage(),
		Quantity:  req.Quantity,
	}); err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := saveCart(c, user.ID, cart); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogDebug("User %d added %s x%d to cart", user.ID, id, req.Quantity)
	utils.Success(c, "Item added to cart", cartResponse(cart))
}

// UpdateCartItem handles PUT /v1/user/cart/:item_id
func (h *Handler) UpdateCartItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.ErrInvalidRequest)
		return
	}

	cart := loadCart(c, user.ID)
	if err := cart.SetQuantity(c.Param("item_id"), req.Quantity); err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := saveCart(c, user.ID, cart); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Cart updated", cartResponse(cart))
}

// RemoveFromCart handles DELETE /v1/user/cart/:item_id
func (h *Handler) RemoveFromCart(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	cart := loadCart(c, user.ID)
	if err := cart.Remove(c.Param("item_id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := saveCart(c, user.ID, cart); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Item removed from cart", cartResponse(cart))
}

// ClearCart handles DELETE /v1/user/cart
func (h *Handler) ClearCart(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	cart := loadCart(c, user.ID)
	cart.Clear()
	if err := saveCart(c, user.ID, cart); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Cart cleared", cartResponse(cart))
}
