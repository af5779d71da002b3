package adapter

import (
	"context"

	orderapp "github.com/dwikikusuma/brewhome/internal/order/app"
	"github.com/dwikikusuma/brewhome/internal/order/domain"
)

type OrderServiceWriter struct {
	svc *orderapp.Service
}

func NewOrderServiceWriter(svc *orderapp.Service) *OrderServiceWriter {
	return &OrderServiceWriter{svc: svc}
}

func (w *OrderServiceWriter) PlaceOrder(ctx context.Context, order domain.Order) error {
	return w.svc.Place(ctx, order)
}

func (w *OrderServiceWriter) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	return w.svc.SaveProfile(ctx, customer)
}

func (w *OrderServiceWriter) LastCustomer(ctx context.Context) (domain.Customer, bool) {
	return w.svc.Profile(ctx)
}
