package app

import (
	"context"

	"github.com/dwikikusuma/brewhome/internal/cart/domain"
)

type CartRepo interface {
	// Load returns an empty cart when nothing is stored and an error wrapping
	// ErrCorrupt when the stored entry cannot be decoded.
	Load(ctx context.Context) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
	Delete(ctx context.Context) error
}

// Observer receives the "cart changed" signal after every mutation.
type Observer interface {
	CartChanged(ctx context.Context, totals domain.Totals)
}

type ObserverFunc func(ctx context.Context, totals domain.Totals)

func (f ObserverFunc) CartChanged(ctx context.Context, totals domain.Totals) { f(ctx, totals) }
