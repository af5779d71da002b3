package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dwikikusuma/brewhome/internal/cart/app"
	"github.com/dwikikusuma/brewhome/internal/cart/domain"
	"github.com/dwikikusuma/brewhome/pkg/kv"
)

// CartKey is the storage entry holding the cart object.
const CartKey = "cart_v1"

type CartRepo struct {
	store kv.Store
}

func NewCartRepo(store kv.Store) *CartRepo {
	return &CartRepo{store: store}
}

func (r *CartRepo) Load(ctx context.Context) (domain.Cart, error) {
	raw, err := r.store.Get(ctx, CartKey)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("read cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("%w: %v", app.ErrCorrupt, err)
	}
	return cart, nil
}

func (r *CartRepo) Save(ctx context.Context, cart domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return r.store.Set(ctx, CartKey, raw)
}

func (r *CartRepo) Delete(ctx context.Context) error {
	return r.store.Delete(ctx, CartKey)
}
