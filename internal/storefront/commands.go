package storefront

import (
	"context"
	"errors"
	"fmt"

	cartapp "github.com/dwikikusuma/brewhome/internal/cart/app"
	cartdomain "github.com/dwikikusuma/brewhome/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/brewhome/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/brewhome/internal/checkout/app"
	checkoutdomain "github.com/dwikikusuma/brewhome/internal/checkout/domain"
	orderapp "github.com/dwikikusuma/brewhome/internal/order/app"
	orderdomain "github.com/dwikikusuma/brewhome/internal/order/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Session is one browsing context's view of the store.
type Session struct {
	ID       string
	Cart     *cartapp.Service
	Checkout *checkoutapp.Service
	Orders   *orderapp.Service

	catalog *catalogapp.Service
}

// OnAddRequested adds qty units of a catalog product; qty 0 means one.
func (s *Session) OnAddRequested(ctx context.Context, productID string, qty int) (cartdomain.Totals, error) {
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return cartdomain.Totals{}, fmt.Errorf("%w: quantity must be positive, got %d", catalogapp.ErrInvalidInput, qty)
	}
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return cartdomain.Totals{}, fmt.Errorf("product %q: %w", productID, err)
	}
	return s.Cart.Add(ctx, p.ID, p.Title, p.Price, p.Image, qty)
}

func (s *Session) OnRemoveRequested(ctx context.Context, productID string) (cartdomain.Totals, error) {
	return s.Cart.Remove(ctx, productID)
}

func (s *Session) OnQuantityRequested(ctx context.Context, productID string, qty int) (cartdomain.Totals, error) {
	return s.Cart.UpdateQty(ctx, productID, qty)
}

// OnStepRequested backs the +/- controls: the line's quantity moves by delta
// and the line disappears at zero.
func (s *Session) OnStepRequested(ctx context.Context, productID string, delta int) (cartdomain.Totals, error) {
	return s.Cart.AdjustQty(ctx, productID, delta)
}

func (s *Session) OnClearRequested(ctx context.Context) (cartdomain.Totals, error) {
	return s.Cart.Clear(ctx)
}

type CheckoutView struct {
	Summary checkoutdomain.Summary
	// Customer pre-fills the form when HasCustomer is set.
	Customer    orderdomain.Customer
	HasCustomer bool
}

func (s *Session) OnCheckoutRequested(ctx context.Context, quickBuyID string) (CheckoutView, error) {
	sum, err := s.Checkout.Summarize(ctx, quickBuyID)
	if err != nil {
		return CheckoutView{}, err
	}
	c, ok := s.Checkout.Prefill(ctx)
	return CheckoutView{Summary: sum, Customer: c, HasCustomer: ok}, nil
}

func (s *Session) OnSubmitRequested(ctx context.Context, quickBuyID string, customer orderdomain.Customer) (checkoutapp.Result, error) {
	return s.Checkout.Submit(ctx, checkoutapp.SubmitRequest{QuickBuyID: quickBuyID, Customer: customer})
}

type Confirmation struct {
	Order orderdomain.Order
	Brief string
}

// OnConfirmationRequested looks up a placed order for the thank-you view.
// A missing order is reported with orderapp.ErrNotFound; the view still
// shows the id it was given.
func (s *Session) OnConfirmationRequested(ctx context.Context, orderID string, lang language.Tag) (Confirmation, error) {
	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderapp.ErrNotFound) {
			return Confirmation{}, fmt.Errorf("order %s: %w", orderID, err)
		}
		return Confirmation{}, err
	}
	return Confirmation{Order: o, Brief: o.Brief(message.NewPrinter(lang))}, nil
}
