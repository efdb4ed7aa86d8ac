package pos

import (
	"github.com/shopspring/decimal"

	"next-pos/models"
)

// Cart is the ordered set of line selections for one sale. There is at most
// one line per item. Totals are always computed from the lines.
type Cart struct {
	lines []models.CartLine
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) find(itemID string) int {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// AddItem increments the line of an item already in the cart, or appends a
// new line with quantity 1 at the listing's price
func (c *Cart) AddItem(listing models.CatalogListing) models.CartLine {
	if i := c.find(listing.ID); i >= 0 {
		c.lines[i].Quantity = c.lines[i].Quantity.Add(decimal.NewFromInt(1))
		return c.lines[i]
	}

	line := models.CartLine{
		ItemID:    listing.ID,
		Name:      listing.Name,
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: listing.Price,
	}
	c.lines = append(c.lines, line)
	return line
}

// RemoveItem deletes the line of an item. Removing an absent item is a no-op.
func (c *Cart) RemoveItem(itemID string) {
	if i := c.find(itemID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// UpdateLine overrides the quantity and/or unit price of a line. Negative
// values are rejected and the line keeps its previous values. Zero quantity
// is accepted.
func (c *Cart) UpdateLine(itemID string, quantity, price *decimal.Decimal) (models.CartLine, error) {
	i := c.find(itemID)
	if i < 0 {
		return models.CartLine{}, invalid(ErrLineNotFound, "%s", itemID)
	}
	if quantity != nil && quantity.IsNegative() {
		return c.lines[i], invalid(ErrNegativeQuantity, "%s", quantity.String())
	}
	if price != nil && price.IsNegative() {
		return c.lines[i], invalid(ErrNegativePrice, "%s", price.String())
	}

	if quantity != nil {
		c.lines[i].Quantity = *quantity
	}
	if price != nil {
		c.lines[i].UnitPrice = *price
	}
	return c.lines[i], nil
}

// Total returns Σ(quantity × unit price)
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Amount())
	}
	return total
}

// ItemCount returns Σ(quantity)
func (c *Cart) ItemCount() decimal.Decimal {
	count := decimal.Zero
	for _, l := range c.lines {
		count = count.Add(l.Quantity)
	}
	return count
}

// Lines returns a copy of the lines in insertion order
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
}
