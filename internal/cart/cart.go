// Package cart implements the pre-checkout working set of menu selections
// for one session. Mutations write the whole snapshot through to a Store so
// the cart survives reloads; last write wins.
package cart

import "github.com/canteen-hub/api/internal/menu"

// Item is one cart line: a catalog item plus a quantity.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	Quantity int32  `json:"quantity"`
}

// Cart holds at most one entry per item id, each with quantity >= 1.
type Cart struct {
	items []Item
}

// NewCart builds a cart from a persisted snapshot, dropping entries with a
// non-positive quantity.
func NewCart(items []Item) *Cart {
	c := &Cart{}
	for _, it := range items {
		if it.Quantity > 0 {
			c.items = append(c.items, it)
		}
	}
	return c
}

// Add merges the catalog item into the cart: an existing entry gains one,
// a new entry starts at quantity 1.
func (c *Cart) Add(item menu.Item) {
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, Item{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Category: item.Category,
		Quantity: 1,
	})
}

// Remove deletes the entry with the given id. Removing an absent id is a
// no-op.
func (c *Cart) Remove(id string) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the entry's quantity; a quantity of zero or less
// removes the entry.
func (c *Cart) SetQuantity(id string, quantity int32) {
	if quantity <= 0 {
		c.Remove(id)
		return
	}
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the cart entries.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Total is the sum of price times quantity over all entries, in paise.
func (c *Cart) Total() int64 {
	var total int64
	for _, it := range c.items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

// Len returns the number of distinct entries.
func (c *Cart) Len() int {
	return len(c.items)
}
