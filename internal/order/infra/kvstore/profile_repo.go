package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dwikikusuma/brewhome/internal/order/app"
	"github.com/dwikikusuma/brewhome/internal/order/domain"
	"github.com/dwikikusuma/brewhome/pkg/kv"
)

type ProfileRepo struct {
	store kv.Store
}

func NewProfileRepo(store kv.Store) *ProfileRepo {
	return &ProfileRepo{store: store}
}

func (r *ProfileRepo) Load(ctx context.Context) (domain.Customer, bool, error) {
	raw, err := r.store.Get(ctx, CustomerKey)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.Customer{}, false, nil
	}
	if err != nil {
		return domain.Customer{}, false, fmt.Errorf("read customer profile: %w", err)
	}

	var c *domain.Customer
	if err := json.Unmarshal(raw, &c); err != nil {
		return domain.Customer{}, false, fmt.Errorf("%w: %v", app.ErrCorrupt, err)
	}
	if c == nil {
		return domain.Customer{}, false, nil
	}
	return *c, true, nil
}

func (r *ProfileRepo) Save(ctx context.Context, c domain.Customer) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode customer profile: %w", err)
	}
	return r.store.Set(ctx, CustomerKey, raw)
}
