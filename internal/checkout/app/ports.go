package app

import (
	"context"

	orderdomain "github.com/dwikikusuma/brewhome/internal/order/domain"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ProductID string
	Title     string
	Image     string
	Price     decimal.Decimal
	Quantity  int
}

type CartReader interface {
	GetCart(ctx context.Context) ([]CartItem, error)
	ClearCart(ctx context.Context) error
}

type Product struct {
	ID    string
	Title string
	Image string
	Price decimal.Decimal
}

type CatalogReader interface {
	// GetProduct returns an error matching ErrProductNotFound for unknown ids.
	GetProduct(ctx context.Context, productID string) (Product, error)
}

type OrderWriter interface {
	PlaceOrder(ctx context.Context, order orderdomain.Order) error
	SaveCustomer(ctx context.Context, customer orderdomain.Customer) error
	LastCustomer(ctx context.Context) (orderdomain.Customer, bool)
}
