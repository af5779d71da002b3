package storefront

import (
	"context"
	"strings"
	"testing"

	catalogapp "github.com/dwikikusuma/brewhome/internal/catalog/app"
	"github.com/dwikikusuma/brewhome/internal/catalog/infra/yamlcatalog"
	orderapp "github.com/dwikikusuma/brewhome/internal/order/app"
	orderdomain "github.com/dwikikusuma/brewhome/internal/order/domain"
	"github.com/dwikikusuma/brewhome/pkg/kv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func newStorefront(t *testing.T) (*Storefront, *kv.Memory) {
	t.Helper()
	products, err := yamlcatalog.Default()
	require.NoError(t, err)
	store := kv.NewMemory()
	cfg := Config{Namespace: "brewhome", OrderIDPrefix: "BH", DeliveryFee: decimal.NewFromInt(30)}
	return New(store, catalogapp.NewService(products), cfg, nil), store
}

func mustSession(t *testing.T, f *Storefront, id string) *Session {
	t.Helper()
	s, err := f.Session(id)
	require.NoError(t, err)
	return s
}

var asha = orderdomain.Customer{Fullname: "Asha", Phone: "99", Email: "a@example.com", Address: "1 Bean St"}

func TestSessionRejectsMalformedID(t *testing.T) {
	f, _ := newStorefront(t)
	_, err := f.Session("not-a-uuid")
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	f, store := newStorefront(t)
	a := mustSession(t, f, NewSessionID())
	b := mustSession(t, f, NewSessionID())

	_, err := a.OnAddRequested(ctx, "cappuccino", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, a.Cart.Totals(ctx).Count)
	assert.Equal(t, 0, b.Cart.Totals(ctx).Count)

	keys := store.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "brewhome:"+a.ID+":"))
	assert.True(t, strings.HasSuffix(keys[0], ":cart_v1"))
}

func TestSameSessionSharesState(t *testing.T) {
	ctx := context.Background()
	f, _ := newStorefront(t)
	id := NewSessionID()

	_, err := mustSession(t, f, id).OnAddRequested(ctx, "brownie", 0)
	require.NoError(t, err)

	tot := mustSession(t, f, strings.ToUpper(id)).Cart.Totals(ctx)
	assert.Equal(t, 1, tot.Count, "qty 0 adds one; id is normalised")
}

func TestOnAddRequestedValidates(t *testing.T) {
	ctx := context.Background()
	f, _ := newStorefront(t)
	s := mustSession(t, f, NewSessionID())

	_, err := s.OnAddRequested(ctx, "espresso", 1)
	require.ErrorIs(t, err, catalogapp.ErrNotFound)

	_, err = s.OnAddRequested(ctx, "brownie", -1)
	require.ErrorIs(t, err, catalogapp.ErrInvalidInput)
}

func TestQuantityControls(t *testing.T) {
	ctx := context.Background()
	f, _ := newStorefront(t)
	s := mustSession(t, f, NewSessionID())

	_, _ = s.OnAddRequested(ctx, "instant", 1)
	tot, err := s.OnStepRequested(ctx, "instant", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, tot.Count)

	tot, err = s.OnQuantityRequested(ctx, "instant", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, tot.Count)

	tot, err = s.OnRemoveRequested(ctx, "instant")
	require.NoError(t, err)
	assert.Equal(t, 0, tot.Count)
}

func TestCheckoutToConfirmation(t *testing.T) {
	ctx := context.Background()
	f, _ := newStorefront(t)
	s := mustSession(t, f, NewSessionID())

	_, _ = s.OnAddRequested(ctx, "cappuccino", 2)
	_, _ = s.OnAddRequested(ctx, "brownie", 1)

	view, err := s.OnCheckoutRequested(ctx, "")
	require.NoError(t, err)
	assert.False(t, view.HasCustomer)
	assert.True(t, view.Summary.Total.Equal(decimal.NewFromInt(610)))

	res, err := s.OnSubmitRequested(ctx, "", asha)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Cart.Totals(ctx).Count)

	conf, err := s.OnConfirmationRequested(ctx, res.OrderID, language.English)
	require.NoError(t, err)
	assert.Equal(t, res.OrderID, conf.Order.ID)
	assert.Contains(t, conf.Brief, "Cappuccino x 2, Retro Brownie x 1 • Total: ₹ 610")

	view, err = s.OnCheckoutRequested(ctx, "coldbrew")
	require.NoError(t, err)
	assert.True(t, view.HasCustomer)
	assert.Equal(t, "Asha", view.Customer.Fullname)
	assert.True(t, view.Summary.QuickBuy)

	_, err = s.OnConfirmationRequested(ctx, "BH-00000000-0000-0000", language.English)
	require.ErrorIs(t, err, orderapp.ErrNotFound)
}
