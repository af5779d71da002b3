package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type CartLine struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
	Image string          `json:"image"`
}

// LineTotal is Price × Qty.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Cart maps product id to line and remembers insertion order. Every stored
// line has Qty >= 1. The zero value is an empty cart.
type Cart struct {
	order []string
	lines map[string]CartLine
}

type Totals struct {
	Items    []CartLine      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Count    int             `json:"count"`
}

func (c *Cart) Len() int { return len(c.order) }

func (c *Cart) Line(id string) (CartLine, bool) {
	l, ok := c.lines[id]
	return l, ok
}

// Add creates the line with quantity 0 when absent, then increments it by qty.
// Metadata of an existing line is kept. A line left with Qty <= 0 is removed.
func (c *Cart) Add(id, title string, price decimal.Decimal, image string, qty int) {
	l, ok := c.lines[id]
	if !ok {
		l = CartLine{ID: id, Title: title, Price: price, Image: image}
	}
	l.Qty += qty
	c.put(l)
}

// Remove reports whether a line was deleted.
func (c *Cart) Remove(id string) bool {
	if _, ok := c.lines[id]; !ok {
		return false
	}
	delete(c.lines, id)
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// SetQty sets an existing line to max(0, qty); zero removes it. It reports
// whether the id was present.
func (c *Cart) SetQty(id string, qty int) bool {
	l, ok := c.lines[id]
	if !ok {
		return false
	}
	l.Qty = max(0, qty)
	c.put(l)
	return true
}

func (c *Cart) put(l CartLine) {
	if l.Qty <= 0 {
		c.Remove(l.ID)
		return
	}
	if c.lines == nil {
		c.lines = make(map[string]CartLine)
	}
	if _, ok := c.lines[l.ID]; !ok {
		c.order = append(c.order, l.ID)
	}
	c.lines[l.ID] = l
}

// Totals is a snapshot; the returned items do not alias the cart.
func (c *Cart) Totals() Totals {
	t := Totals{Items: make([]CartLine, 0, len(c.order)), Subtotal: decimal.Zero}
	for _, id := range c.order {
		l := c.lines[id]
		t.Items = append(t.Items, l)
		t.Subtotal = t.Subtotal.Add(l.LineTotal())
		t.Count += l.Qty
	}
	return t
}

// MarshalJSON writes the cart as a JSON object keyed by product id, keys in
// insertion order.
func (c Cart) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.lines[id])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form written by MarshalJSON, keeping key
// order. Lines with Qty <= 0 are dropped; a missing line id falls back to
// its key.
func (c *Cart) UnmarshalJSON(data []byte) error {
	*c = Cart{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("cart: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var l CartLine
		if err := dec.Decode(&l); err != nil {
			return fmt.Errorf("cart line %q: %w", key, err)
		}
		if strings.TrimSpace(l.ID) == "" {
			l.ID = key
		}
		c.put(l)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// ParsePrice coerces a textual price the way catalog markup carries it.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q is not a number", s)
	}
	return d, nil
}
