package dispatch

import (
	"context"
	"strings"

	"github.com/MarcoSafwat16/AMScout/model"
	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/pkg/errors"
)

// ProductInput is the intent to create or update a shop listing.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Variants    map[string][]string
	ImageUrls   []string
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || in.Price < 0 {
		return ErrInvalidProduct
	}
	return nil
}

func (in ProductInput) fields(sellerId string) map[string]interface{} {
	return map[string]interface{}{
		"sellerId":    sellerId,
		"name":        strings.TrimSpace(in.Name),
		"description": in.Description,
		"price":       in.Price,
		"category":    in.Category,
		"variants":    in.Variants,
		"imageUrls":   in.ImageUrls,
	}
}

// AddProduct lists a new product with the viewer as seller.
func (d *Dispatcher) AddProduct(ctx context.Context, viewerId string, in ProductInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	id, err := d.docs.Create(ctx, store.CollectionProducts, in.fields(viewerId))
	if err != nil {
		return "", errors.Wrap(err, "write product")
	}
	return id, nil
}

// UpdateProduct replaces the listing fields of an existing product.
func (d *Dispatcher) UpdateProduct(ctx context.Context, viewerId string, productId string, in ProductInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	err := d.docs.Update(ctx, store.CollectionProducts, productId, in.fields(viewerId))
	return errors.Wrap(err, "update product "+productId)
}

func (d *Dispatcher) DeleteProduct(ctx context.Context, productId string) error {
	return errors.Wrap(d.docs.Delete(ctx, store.CollectionProducts, productId), "delete product "+productId)
}

// cartOf returns the viewer's cart, creating it lazily. Carts are local
// view state; nothing about them is persisted.
func (d *Dispatcher) cartOf(viewerId string) *model.Cart {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.carts[viewerId]; !ok {
		d.carts[viewerId] = &model.Cart{}
	}
	return d.carts[viewerId]
}

// AddToCart merges the product+variant into the viewer's cart.
func (d *Dispatcher) AddToCart(viewerId string, product model.Product, variant model.ProductVariant) {
	d.cartOf(viewerId).Add(product, variant)
}

// UpdateCartQuantity sets a cart line's quantity; below 1 removes the line.
func (d *Dispatcher) UpdateCartQuantity(viewerId string, cartItemId string, quantity int) {
	d.cartOf(viewerId).UpdateQuantity(cartItemId, quantity)
}

func (d *Dispatcher) RemoveFromCart(viewerId string, cartItemId string) {
	d.cartOf(viewerId).Remove(cartItemId)
}

// Cart exposes the viewer's cart for projection.
func (d *Dispatcher) Cart(viewerId string) *model.Cart {
	return d.cartOf(viewerId)
}

// Checkout requires a non-empty cart and empties it. Completed orders are
// not persisted.
func (d *Dispatcher) Checkout(viewerId string) error {
	return d.cartOf(viewerId).Checkout()
}
