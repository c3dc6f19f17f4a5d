package cart

import (
	"sync"

	"github.com/pumaprintables/portal/models"
)

// Item is a product snapshot plus the quantity the user wants.
type Item struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// View is the read-only shape handed to controllers.
type View struct {
	Items         []Item `json:"items"`
	TotalQuantity int    `json:"totalQuantity"`
	Open          bool   `json:"open"`
}

// Cart holds the (product, quantity) pairs for one session. Entries are
// ordered by insertion and unique by product ID. Every mutation runs to
// completion under the lock, and afterwards every entry satisfies
// 0 < quantity <= stockQuantity with an active product, or is gone.
type Cart struct {
	mu    sync.Mutex
	items []Item
	open  bool
}

func New() *Cart {
	return &Cart{}
}

// AddItem inserts the product or raises the existing quantity, capped at the
// stock ceiling. Inactive or out-of-stock products are ignored.
func (c *Cart) AddItem(product models.Product, quantity int) {
	if !product.Available() {
		return
	}
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.Product.ID == product.ID {
			c.items[i].Product = product
			c.items[i].Quantity = min(item.Quantity+quantity, product.StockQuantity)
			return
		}
	}
	c.items = append(c.items, Item{
		Product:  product,
		Quantity: min(quantity, product.StockQuantity),
	})
}

// SetItemQuantity clamps n to [0, stock]; zero removes the entry. Unknown
// product IDs are a no-op.
func (c *Cart) SetItemQuantity(productID string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= 0 {
		c.removeLocked(productID)
		return
	}
	for i, item := range c.items {
		if item.Product.ID == productID {
			c.items[i].Quantity = min(n, item.Product.StockQuantity)
			return
		}
	}
}

// IncrementItem steps the quantity up by one, capped at stock.
func (c *Cart) IncrementItem(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.Product.ID == productID {
			c.items[i].Quantity = min(item.Quantity+1, item.Product.StockQuantity)
			return
		}
	}
}

// DecrementItem steps the quantity down by one; reaching zero removes the
// entry. Absent product IDs are a no-op.
func (c *Cart) DecrementItem(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.Product.ID == productID {
			if item.Quantity <= 1 {
				c.items = append(c.items[:i], c.items[i+1:]...)
			} else {
				c.items[i].Quantity = item.Quantity - 1
			}
			return
		}
	}
}

// RemoveItem drops the entry unconditionally.
func (c *Cart) RemoveItem(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// SyncProductDetails reconciles entries against a fresh catalog fetch.
// Entries whose product appears in fresh get the new snapshot and a
// re-clamped quantity; entries that became inactive, out of stock, or
// clamped to zero are dropped. Products absent from fresh are left alone —
// a partial fetch is not a deletion.
func (c *Cart) SyncProductDetails(fresh []models.Product) {
	if len(fresh) == 0 {
		return
	}
	byID := make(map[string]models.Product, len(fresh))
	for _, p := range fresh {
		byID[p.ID] = p
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, item := range c.items {
		updated, ok := byID[item.Product.ID]
		if !ok {
			kept = append(kept, item)
			continue
		}
		capped := min(item.Quantity, updated.StockQuantity)
		if !updated.Available() || capped == 0 {
			continue
		}
		kept = append(kept, Item{Product: updated, Quantity: capped})
	}
	c.items = kept
}

// TotalQuantity is the sum of all entry quantities.
func (c *Cart) TotalQuantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

// Items returns a copy of the entries in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Open, Close and Toggle track the drawer visibility. Independent UI state,
// outside the cart invariants.
func (c *Cart) OpenDrawer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
}

func (c *Cart) CloseDrawer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
}

func (c *Cart) ToggleDrawer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = !c.open
}

// Snapshot returns the current view.
func (c *Cart) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]Item, len(c.items))
	copy(items, c.items)
	return View{
		Items:         items,
		TotalQuantity: c.totalLocked(),
		Open:          c.open,
	}
}

func (c *Cart) removeLocked(productID string) {
	for i, item := range c.items {
		if item.Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Cart) totalLocked() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
