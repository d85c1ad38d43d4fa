package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/kv"
)

const keyPrefix = "cart:"

// Cart holds one shopper's line items plus derived totals, and writes the
// item list through to a kv.Store after every mutation. Items keep insertion
// order and are unique by product id; totals are recomputed after each
// mutation and are never set directly.
//
// A Cart is not safe for concurrent use. Two Carts sharing a key race on the
// stored snapshot with last-writer-wins semantics; there is no locking or
// merge (known gap, acceptable for a per-shopper cart).
type Cart struct {
	store  kv.Store
	key    string
	policy ErrorPolicy

	items      []LineItem
	totalItems int
	totalPrice float64
}

// New builds an empty cart for owner backed by store, with storage errors
// swallowed. Call Load to rehydrate a previous session's snapshot.
func New(store kv.Store, owner string) *Cart {
	return NewWithPolicy(store, owner, SwallowErrors)
}

func NewWithPolicy(store kv.Store, owner string, policy ErrorPolicy) *Cart {
	return &Cart{
		store:  store,
		key:    keyPrefix + owner,
		policy: policy,
	}
}

// Load reads the persisted snapshot into the cart and recomputes totals.
// A missing key or a payload that does not parse yields an empty cart;
// that is the defined fallback, not an error, regardless of policy.
func (c *Cart) Load(ctx context.Context) error {
	c.items = nil

	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) && c.policy == SurfaceErrors {
			c.recompute()
			return fmt.Errorf("load cart: %w", err)
		}
		c.recompute()
		return nil
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// corrupt snapshot degrades to an empty cart
		c.recompute()
		return nil
	}

	// entries with a non-positive quantity must not exist
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		c.items = append(c.items, it)
	}
	c.recompute()
	return nil
}

// AddItem merges qty of p into the cart. An existing line item keeps its
// snapshot fields and only gains quantity; a new one freezes the product's
// name, image, seller, stock and effective price. qty below 1 is treated
// as 1.
func (c *Cart) AddItem(ctx context.Context, p Product, qty int) error {
	if qty < 1 {
		qty = 1
	}

	for i := range c.items {
		if c.items[i].ID == p.ID {
			c.items[i].Quantity += qty
			c.recompute()
			return c.persist(ctx)
		}
	}

	item := LineItem{
		ID:        p.ID,
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.ImageURL,
		Price:     p.Price,
		Seller:    p.Seller,
		Stock:     p.Stock,
		Quantity:  qty,
	}
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 {
		item.Price = *p.DiscountPrice
		orig := p.Price
		item.OriginalPrice = &orig
	}

	c.items = append(c.items, item)
	c.recompute()
	return c.persist(ctx)
}

// RemoveItem deletes the line item with the given id. An unknown id is a
// no-op, not an error.
func (c *Cart) RemoveItem(ctx context.Context, id int64) error {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.recompute()
	return c.persist(ctx)
}

// UpdateQuantity sets the line item's quantity to qty (absolute, not a
// delta). A non-positive qty removes the item; an unknown id is a no-op.
func (c *Cart) UpdateQuantity(ctx context.Context, id int64, qty int) error {
	if qty <= 0 {
		return c.RemoveItem(ctx, id)
	}

	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = qty
			break
		}
	}
	c.recompute()
	return c.persist(ctx)
}

// Clear empties the cart and erases the persisted snapshot.
func (c *Cart) Clear(ctx context.Context) error {
	c.items = nil
	c.recompute()

	if err := c.store.Delete(ctx, c.key); err != nil {
		if c.policy == SurfaceErrors {
			return fmt.Errorf("clear cart: %w", err)
		}
	}
	return nil
}

func (c *Cart) TotalItems() int { return c.totalItems }

func (c *Cart) TotalPrice() float64 { return c.totalPrice }

func (c *Cart) Len() int { return len(c.items) }

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns the line item with the given id, if present.
func (c *Cart) Item(id int64) (LineItem, bool) {
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return LineItem{}, false
}

func (c *Cart) View() View {
	return View{
		Items:      c.Items(),
		TotalItems: c.totalItems,
		TotalPrice: c.totalPrice,
	}
}

func (c *Cart) recompute() {
	c.totalItems = 0
	c.totalPrice = 0
	for _, it := range c.items {
		c.totalItems += it.Quantity
		c.totalPrice += it.Price * float64(it.Quantity)
	}
}

func (c *Cart) persist(ctx context.Context) error {
	raw, err := json.Marshal(c.items)
	if err == nil {
		err = c.store.Set(ctx, c.key, raw)
	}
	if err != nil && c.policy == SurfaceErrors {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
