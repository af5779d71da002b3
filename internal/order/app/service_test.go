package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dwikikusuma/brewhome/internal/order/app"
	"github.com/dwikikusuma/brewhome/internal/order/domain"
	"github.com/dwikikusuma/brewhome/internal/order/infra/kvstore"
	"github.com/dwikikusuma/brewhome/pkg/kv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*app.Service, *kv.Memory) {
	store := kv.NewMemory()
	return app.NewService(kvstore.NewOrderLog(store, nil), kvstore.NewProfileRepo(store), nil), store
}

func order(id string) domain.Order {
	return domain.NewOrder(id, time.Now(),
		domain.Customer{Fullname: "Asha", Phone: "99", Email: "a@example.com", Address: "1 Bean St"},
		[]domain.OrderItem{{ID: "brownie", Title: "Retro Brownie", Price: decimal.NewFromInt(140), Qty: 1}},
		decimal.NewFromInt(30),
	)
}

func TestPlaceAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	require.NoError(t, svc.Place(ctx, order("BH-20261016-0941-1234")))
	require.NoError(t, svc.Place(ctx, order("BH-20261016-0941-5678")))

	got, err := svc.Get(ctx, "BH-20261016-0941-5678")
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(170)))
	assert.Len(t, svc.List(ctx), 2)

	_, err = svc.Get(ctx, "BH-missing")
	require.ErrorIs(t, err, app.ErrNotFound)
	_, err = svc.Get(ctx, " ")
	require.ErrorIs(t, err, app.ErrInvalidInput)
}

func TestPlaceRejectsInconsistentOrders(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	noID := order("")
	require.ErrorIs(t, svc.Place(ctx, noID), app.ErrInvalidInput)

	empty := order("BH-1")
	empty.Items = nil
	require.ErrorIs(t, svc.Place(ctx, empty), app.ErrInvalidInput)

	badTotal := order("BH-2")
	badTotal.Total = decimal.NewFromInt(1)
	require.ErrorIs(t, svc.Place(ctx, badTotal), app.ErrInvalidInput)

	assert.Empty(t, svc.List(ctx))
}

func TestListDegradesOnCorruptLog(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()
	require.NoError(t, store.Set(ctx, kvstore.OrdersKey, []byte("not json")))

	assert.Empty(t, svc.List(ctx))
	_, err := svc.Get(ctx, "BH-1")
	assert.True(t, errors.Is(err, app.ErrNotFound))
}

func TestProfileOverwritten(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, ok := svc.Profile(ctx)
	assert.False(t, ok)

	require.NoError(t, svc.SaveProfile(ctx, domain.Customer{Fullname: " Asha ", Phone: "1", Email: "a@x", Address: "A"}))
	require.NoError(t, svc.SaveProfile(ctx, domain.Customer{Fullname: "Ravi", Phone: "2", Email: "r@x", Address: "B"}))

	c, ok := svc.Profile(ctx)
	require.True(t, ok)
	assert.Equal(t, "Ravi", c.Fullname)
	assert.Equal(t, "B", c.Address)
}
