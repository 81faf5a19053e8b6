package services

import (
	"encoding/json"
	"fmt"

	"github.com/Govind-619/ScentSphere/utils"
	"github.com/shopspring/decimal"
)

// CartItem is a client-held line item. UnitPrice is a display snapshot and is
// re-derived from the variant at checkout.
type CartItem struct {
	ID        string          `json:"id"`
	ProductID uint            `json:"product_id"`
	VariantID uint            `json:"variant_id"`
	Name      string          `json:"name"`
	SizeLabel string          `json:"size_label"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

// CartItemID builds the composite key of a product variant
func CartItemID(productID, variantID uint) string {
	return fmt.Sprintf("p%d-v%d", productID, variantID)
}

// Cart is an ordered list of items, unique by ID
type Cart struct {
	Items []CartItem `json:"items"`
}

// LoadCart decodes a serialized cart. Empty or corrupt data yields an empty cart.
func LoadCart(data string) *Cart {
	cart := &Cart{}
	if data == "" {
		return cart
	}
	if err := json.Unmarshal([]byte(data), cart); err != nil {
		utils.LogDebug("Discarding unreadable cart: %v", err)
		return &Cart{}
	}
	return cart
}

// Encode serializes the cart for the session store
func (c *Cart) Encode() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Add merges item into the cart. A duplicate ID sums the quantities and
// refreshes the snapshot fields.
func (c *Cart) Add(item CartItem) error {
	if item.Quantity < 1 {
		return utils.ValidationErr("Quantity must be at least 1")
	}
	if item.ID == "" {
		item.ID = CartItemID(item.ProductID, item.VariantID)
	}
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			item.Quantity += c.Items[i].Quantity
			c.Items[i] = item
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// SetQuantity changes the quantity of id; zero or less removes it
func (c *Cart) SetQuantity(id string, quantity int) error {
	if quantity <= 0 {
		return c.Remove(id)
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return utils.NotFoundErr("Item not found in cart")
}

// Remove deletes id from the cart
func (c *Cart) Remove(id string) error {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return utils.NotFoundErr("Item not found in cart")
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = nil
}

// Count returns the number of units in the cart
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Subtotal sums the snapshot prices
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return utils.Round2(total)
}

// Lines converts the cart into order lines
func (c *Cart) Lines() []OrderLine {
	lines := make([]OrderLine, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, OrderLine{VariantID: item.VariantID, Quantity: item.Quantity})
	}
	return lines
}
