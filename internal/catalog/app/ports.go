package app

import (
	"context"

	"github.com/dwikikusuma/brewhome/internal/catalog/domain"
)

type ProductRepo interface {
	// Get returns ErrNotFound for an unknown id.
	Get(ctx context.Context, id string) (domain.Product, error)
	// List returns products in catalog order.
	List(ctx context.Context) ([]domain.Product, error)
}
