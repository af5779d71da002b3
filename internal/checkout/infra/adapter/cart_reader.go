package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/brewhome/internal/cart/app"
	checkoutapp "github.com/dwikikusuma/brewhome/internal/checkout/app"
)

type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) GetCart(ctx context.Context) ([]checkoutapp.CartItem, error) {
	totals := r.svc.Totals(ctx)

	items := make([]checkoutapp.CartItem, 0, len(totals.Items))
	for _, it := range totals.Items {
		items = append(items, checkoutapp.CartItem{
			ProductID: it.ID,
			Title:     it.Title,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Qty,
		})
	}
	return items, nil
}

func (r *CartServiceReader) ClearCart(ctx context.Context) error {
	_, err := r.svc.Clear(ctx)
	return err
}
