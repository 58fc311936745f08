package model

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

/*

CartItem is a single line of a member's shopping cart.

CartItemId: composite key formed from product id + variant dimension +
	variant value, e.g. "prod1_Size_L". At most one CartItem exists per
	composite key; adding an already-present key increments quantity instead
	of duplicating.
Product: the referenced product at the time it was added
Quantity: positive item count
SelectedVariant: the chosen variant dimension and value

*/
type CartItem struct {
	CartItemId      string         `json:"cartItemId"`
	Product         Product        `json:"product"`
	Quantity        int            `json:"quantity"`
	SelectedVariant ProductVariant `json:"selectedVariant"`
}

// CartItemKey builds the composite key addressing a cart entry.
func CartItemKey(productId string, variant ProductVariant) string {
	return fmt.Sprintf("%s_%s_%s", productId, variant.Type, variant.Value)
}

// Cart holds a member's cart lines in insertion order. It is local view
// state, never persisted to the remote store. All methods are safe for
// concurrent use, so a cart can be shared across request handlers.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
}

var ErrEmptyCart = errors.New("cart is empty")

// Add merges the product+variant into the cart: an existing composite key
// has its quantity incremented, otherwise a new line with quantity 1 is
// appended.
func (c *Cart) Add(product Product, variant ProductVariant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := CartItemKey(product.Id, variant)
	for i := range c.items {
		if c.items[i].CartItemId == key {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, CartItem{
		CartItemId:      key,
		Product:         product,
		Quantity:        1,
		SelectedVariant: variant,
	})
}

// UpdateQuantity sets the quantity of the addressed line. A quantity below 1
// removes the line entirely.
func (c *Cart) UpdateQuantity(cartItemId string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if quantity < 1 {
		c.remove(cartItemId)
		return
	}
	for i := range c.items {
		if c.items[i].CartItemId == cartItemId {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the addressed line if present.
func (c *Cart) Remove(cartItemId string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(cartItemId)
}

func (c *Cart) remove(cartItemId string) {
	for i := range c.items {
		if c.items[i].CartItemId == cartItemId {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CartItem{}, c.items...)
}

// Subtotal is the sum of price times quantity across all lines.
func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, item := range c.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities across all lines, used for the cart
// badge.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Checkout empties the cart. Completed-order state is not persisted.
func (c *Cart) Checkout() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return ErrEmptyCart
	}
	c.items = nil
	return nil
}
