package adapter

import (
	"context"
	"errors"
	"fmt"

	catalogapp "github.com/dwikikusuma/brewhome/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/brewhome/internal/checkout/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, productID string) (checkoutapp.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		return checkoutapp.Product{}, fmt.Errorf("%w: %s", checkoutapp.ErrProductNotFound, productID)
	}
	if err != nil {
		return checkoutapp.Product{}, err
	}

	return checkoutapp.Product{
		ID:    p.ID,
		Title: p.Title,
		Image: p.Image,
		Price: p.Price,
	}, nil
}
