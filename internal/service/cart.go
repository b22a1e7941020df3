package service

import (
	"github.com/dorada-store/internal/models"
)

// CartLine is one product in the cart with the details shown to the customer.
type CartLine struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	NameAr    string `json:"name_ar"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	Available int    `json:"available"`
}

// Cart is the per-device shopping cart. Every mutation checks the live
// product quantity and recomputes the totals.
type Cart struct {
	Lines     []CartLine `json:"lines"`
	ItemCount int        `json:"item_count"`
	Subtotal  int64      `json:"subtotal"`
}

// Add puts qty more units of product in the cart; qty <= 0 means one.
func (c *Cart) Add(product models.Product, qty int) error {
	if qty <= 0 {
		qty = 1
	}
	if product.Quantity <= 0 {
		return ErrOutOfStock
	}
	i := c.find(product.ID)
	merged := qty
	if i >= 0 {
		merged += c.Lines[i].Quantity
	}
	if merged > product.Quantity {
		return &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.NameAr,
			Requested:   merged,
			Available:   product.Quantity,
		}
	}
	if i < 0 {
		c.Lines = append(c.Lines, CartLine{ProductID: product.ID})
		i = len(c.Lines) - 1
	}
	c.Lines[i].refresh(product)
	c.Lines[i].Quantity = merged
	c.recompute()
	return nil
}

// UpdateQuantity sets the line to qty; qty <= 0 removes it.
func (c *Cart) UpdateQuantity(product models.Product, qty int) error {
	if qty <= 0 {
		c.Remove(product.ID)
		return nil
	}
	if qty > product.Quantity {
		return &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.NameAr,
			Requested:   qty,
			Available:   product.Quantity,
		}
	}
	i := c.find(product.ID)
	if i < 0 {
		c.Lines = append(c.Lines, CartLine{ProductID: product.ID})
		i = len(c.Lines) - 1
	}
	c.Lines[i].refresh(product)
	c.Lines[i].Quantity = qty
	c.recompute()
	return nil
}

// Remove drops the line of productID if present.
func (c *Cart) Remove(productID uint) {
	if i := c.find(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
	c.recompute()
}

func (c *Cart) Clear() {
	c.Lines = nil
	c.recompute()
}

// Contains reports whether productID has a line.
func (c *Cart) Contains(productID uint) bool {
	return c.find(productID) >= 0
}

// Refresh replaces the stored snapshots with live product data and drops
// lines whose product is gone.
func (c *Cart) Refresh(live map[uint]models.Product) {
	kept := c.Lines[:0]
	for _, line := range c.Lines {
		product, ok := live[line.ProductID]
		if !ok {
			continue
		}
		line.refresh(product)
		kept = append(kept, line)
	}
	c.Lines = kept
	c.recompute()
}

// ProductIDs lists the products in the cart.
func (c *Cart) ProductIDs() []uint {
	ids := make([]uint, 0, len(c.Lines))
	for _, line := range c.Lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

// OrderLines converts the cart into checkout lines.
func (c *Cart) OrderLines() []OrderLine {
	lines := make([]OrderLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, OrderLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return lines
}

func (c *Cart) find(productID uint) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) recompute() {
	c.ItemCount = 0
	c.Subtotal = 0
	for _, line := range c.Lines {
		c.ItemCount += line.Quantity
		c.Subtotal += line.Price * int64(line.Quantity)
	}
	if c.Lines == nil {
		c.Lines = []CartLine{}
	}
}

func (l *CartLine) refresh(product models.Product) {
	l.Name = product.Name
	l.NameAr = product.NameAr
	l.Price = product.Price
	l.Image = product.CoverImage()
	l.SKU = product.SKU
	l.Available = product.Quantity
}
