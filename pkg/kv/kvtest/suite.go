// Package kvtest holds the behaviour every kv.Store backend must share.
package kvtest

import (
	"context"

	"github.com/dwikikusuma/brewhome/pkg/kv"
	"github.com/stretchr/testify/suite"
)

// StoreSuite is embedded by backend test suites; NewStore must return an
// empty store for every test.
type StoreSuite struct {
	suite.Suite
	NewStore func() kv.Store
}

func (s *StoreSuite) TestGetMissing() {
	_, err := s.NewStore().Get(context.Background(), "missing")
	s.Require().ErrorIs(err, kv.ErrNotFound)
}

func (s *StoreSuite) TestSetOverwrites() {
	ctx := context.Background()
	st := s.NewStore()

	s.Require().NoError(st.Set(ctx, "cart_v1", []byte(`{"a":1}`)))
	s.Require().NoError(st.Set(ctx, "cart_v1", []byte(`{"b":2}`)))

	got, err := st.Get(ctx, "cart_v1")
	s.Require().NoError(err)
	s.Equal(`{"b":2}`, string(got))
}

func (s *StoreSuite) TestDelete() {
	ctx := context.Background()
	st := s.NewStore()

	s.Require().NoError(st.Set(ctx, "orders_v1", []byte(`[]`)))
	s.Require().NoError(st.Delete(ctx, "orders_v1"))
	s.Require().NoError(st.Delete(ctx, "orders_v1"), "deleting an absent key")

	_, err := st.Get(ctx, "orders_v1")
	s.ErrorIs(err, kv.ErrNotFound)
}

func (s *StoreSuite) TestNamespacesDoNotLeak() {
	ctx := context.Background()
	st := s.NewStore()
	a := kv.Namespaced(st, "brewhome", "a")
	b := kv.Namespaced(st, "brewhome", "b")

	s.Require().NoError(a.Set(ctx, "customer", []byte("alice")))
	_, err := b.Get(ctx, "customer")
	s.ErrorIs(err, kv.ErrNotFound)
}
