package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
)

type Customer struct {
	Fullname string `json:"fullname"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

// Trimmed returns c with surrounding whitespace removed from every field.
func (c Customer) Trimmed() Customer {
	return Customer{
		Fullname: strings.TrimSpace(c.Fullname),
		Phone:    strings.TrimSpace(c.Phone),
		Email:    strings.TrimSpace(c.Email),
		Address:  strings.TrimSpace(c.Address),
	}
}

// Missing lists the names of blank fields, in form order.
func (c Customer) Missing() []string {
	t := c.Trimmed()
	var out []string
	for _, f := range []struct{ name, value string }{
		{"fullname", t.Fullname},
		{"phone", t.Phone},
		{"email", t.Email},
		{"address", t.Address},
	} {
		if f.value == "" {
			out = append(out, f.name)
		}
	}
	return out
}

type OrderItem struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
	Image string          `json:"image"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// Order is immutable once placed. Total is always Subtotal + Delivery.
type Order struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Customer  Customer        `json:"customer"`
	Items     []OrderItem     `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Delivery  decimal.Decimal `json:"delivery"`
	Total     decimal.Decimal `json:"total"`
}

// NewOrder copies items so later changes to the caller's slice cannot reach
// the order, and derives the money fields.
func NewOrder(id string, createdAt time.Time, customer Customer, items []OrderItem, delivery decimal.Decimal) Order {
	snapshot := make([]OrderItem, len(items))
	copy(snapshot, items)

	subtotal := decimal.Zero
	for _, it := range snapshot {
		subtotal = subtotal.Add(it.LineTotal())
	}

	return Order{
		ID:        id,
		CreatedAt: createdAt,
		Customer:  customer.Trimmed(),
		Items:     snapshot,
		Subtotal:  subtotal,
		Delivery:  delivery,
		Total:     subtotal.Add(delivery),
	}
}

// Brief is the one-line confirmation summary, e.g.
// "Cappuccino x 2, Retro Brownie x 1 • Total: ₹ 610 • Placed 16 Oct 2026 09:41".
func (o Order) Brief(p *message.Printer) string {
	parts := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		parts = append(parts, fmt.Sprintf("%s x %d", it.Title, it.Qty))
	}
	var total string
	if o.Total.IsInteger() {
		total = p.Sprintf("%d", o.Total.IntPart())
	} else {
		f, _ := o.Total.Float64()
		total = p.Sprintf("%.2f", f)
	}
	return fmt.Sprintf("Order: %s • Total: ₹ %s • Placed %s",
		strings.Join(parts, ", "),
		total,
		o.CreatedAt.Local().Format("02 Jan 2006 15:04"),
	)
}
