package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dwikikusuma/brewhome/internal/order/app"
	"github.com/dwikikusuma/brewhome/internal/order/domain"
	"github.com/dwikikusuma/brewhome/pkg/kv"
	"github.com/dwikikusuma/brewhome/pkg/logger"
)

const (
	OrdersKey   = "orders_v1"
	CustomerKey = "customer"
)

// OrderLog keeps the whole history as one JSON array entry.
type OrderLog struct {
	store kv.Store
	log   *slog.Logger
	mu    sync.Locker
}

func NewOrderLog(store kv.Store, log *slog.Logger) *OrderLog {
	if log == nil {
		log = logger.Discard()
	}
	return &OrderLog{store: store, log: log, mu: &sync.Mutex{}}
}

// WithLocker shares the append lock with other logs writing the same entry.
func (l *OrderLog) WithLocker(mu sync.Locker) *OrderLog {
	l.mu = mu
	return l
}

func (l *OrderLog) List(ctx context.Context) ([]domain.Order, error) {
	raw, err := l.store.Get(ctx, OrdersKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read order log: %w", err)
	}

	var orders []domain.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("%w: %v", app.ErrCorrupt, err)
	}
	return orders, nil
}

// Append rewrites the entry with order added last. An unreadable log is
// replaced by a log holding just this order.
func (l *OrderLog) Append(ctx context.Context, order domain.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	orders, err := l.List(ctx)
	if errors.Is(err, app.ErrCorrupt) {
		l.log.WarnContext(ctx, "discarding unreadable order log", slog.Any("err", err))
		orders = nil
	} else if err != nil {
		return err
	}

	raw, err := json.Marshal(append(orders, order))
	if err != nil {
		return fmt.Errorf("encode order log: %w", err)
	}
	return l.store.Set(ctx, OrdersKey, raw)
}
