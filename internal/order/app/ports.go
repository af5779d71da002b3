package app

import (
	"context"

	"github.com/dwikikusuma/brewhome/internal/order/domain"
)

// OrderLog is append-only: entries are never reordered, rewritten or removed.
type OrderLog interface {
	Append(ctx context.Context, order domain.Order) error
	// List returns orders oldest first.
	List(ctx context.Context) ([]domain.Order, error)
}

type ProfileRepo interface {
	// Load reports false when no profile has been saved.
	Load(ctx context.Context) (domain.Customer, bool, error)
	Save(ctx context.Context, customer domain.Customer) error
}
