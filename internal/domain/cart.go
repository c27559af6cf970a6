package domain

import apperrors "github.com/bhanu79755/Shopbuy/pkg/errors"

// CartItem is a product snapshot with a quantity.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price × quantity in cents.
func (i CartItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Cart holds at most one item per product ID, in insertion order.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add appends product with quantity, or increments the existing line.
func (c *Cart) Add(p Product, quantity int) error {
	if quantity <= 0 {
		return apperrors.InvalidInput("quantity must be a positive integer")
	}
	if i := c.FindItemIndex(p.ID); i >= 0 {
		c.Items[i].Quantity += quantity
		return nil
	}
	c.Items = append(c.Items, CartItem{Product: p.Clone(), Quantity: quantity})
	return nil
}

// Remove deletes the line for id. Unknown IDs are ignored.
func (c *Cart) Remove(id int64) {
	if i := c.FindItemIndex(id); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// UpdateQuantity sets the quantity for id. A quantity of zero or less removes
// the line; unknown IDs are ignored.
func (c *Cart) UpdateQuantity(id int64, quantity int) {
	if quantity <= 0 {
		c.Remove(id)
		return
	}
	if i := c.FindItemIndex(id); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

// TotalAmount sums price × quantity over all lines, in cents.
func (c *Cart) TotalAmount() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount sums the quantities.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItemIndex returns the index of the line for id, or -1.
func (c *Cart) FindItemIndex(id int64) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Snapshot returns a copy safe to hand out.
func (c *Cart) Snapshot() Cart {
	out := Cart{Items: make([]CartItem, len(c.Items))}
	for i, item := range c.Items {
		out.Items[i] = CartItem{Product: item.Product.Clone(), Quantity: item.Quantity}
	}
	return out
}
