// Package storefront wires the cart, checkout and order contexts for one
// browsing context and exposes them as the command handlers UI
// collaborators call.
package storefront

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"

	cartapp "github.com/dwikikusuma/brewhome/internal/cart/app"
	cartkv "github.com/dwikikusuma/brewhome/internal/cart/infra/kvstore"
	catalogapp "github.com/dwikikusuma/brewhome/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/brewhome/internal/checkout/app"
	"github.com/dwikikusuma/brewhome/internal/checkout/infra/adapter"
	orderapp "github.com/dwikikusuma/brewhome/internal/order/app"
	orderdomain "github.com/dwikikusuma/brewhome/internal/order/domain"
	orderkv "github.com/dwikikusuma/brewhome/internal/order/infra/kvstore"
	"github.com/dwikikusuma/brewhome/pkg/kv"
	"github.com/dwikikusuma/brewhome/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidSession = errors.New("invalid session id")

const lockStripes = 64

type Config struct {
	Namespace     string
	OrderIDPrefix string
	// DeliveryFee is added to every order; zero means free delivery.
	DeliveryFee decimal.Decimal
}

type Storefront struct {
	store   kv.Store
	catalog *catalogapp.Service
	cfg     Config
	log     *slog.Logger

	cartLocks  [lockStripes]sync.Mutex
	orderLocks [lockStripes]sync.Mutex
}

func New(store kv.Store, catalog *catalogapp.Service, cfg Config, log *slog.Logger) *Storefront {
	if log == nil {
		log = logger.Discard()
	}
	if cfg.OrderIDPrefix == "" {
		cfg.OrderIDPrefix = orderdomain.DefaultIDPrefix
	}
	return &Storefront{store: store, catalog: catalog, cfg: cfg, log: log}
}

func NewSessionID() string {
	return uuid.NewString()
}

func (f *Storefront) Catalog() *catalogapp.Service {
	return f.catalog
}

// Session builds the services for one browsing context. Sessions are cheap;
// values built for the same id share storage entries and write locks.
func (f *Storefront) Session(id string) (*Session, error) {
	sid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	id = sid.String()

	store := kv.Namespaced(f.store, f.cfg.Namespace, id)
	stripe := stripeOf(id)
	log := f.log.With(slog.String("session", id))

	cart := cartapp.NewService(cartkv.NewCartRepo(store),
		cartapp.WithLogger(log),
		cartapp.WithLocker(&f.cartLocks[stripe]),
	)
	orders := orderapp.NewService(
		orderkv.NewOrderLog(store, log).WithLocker(&f.orderLocks[stripe]),
		orderkv.NewProfileRepo(store),
		log,
	)

	checkout := checkoutapp.NewService(
		adapter.NewCartServiceReader(cart),
		adapter.NewCatalogServiceReader(f.catalog),
		adapter.NewOrderServiceWriter(orders),
		checkoutapp.WithIDGenerator(orderdomain.NewIDGenerator(f.cfg.OrderIDPrefix)),
		checkoutapp.WithDeliveryFee(f.cfg.DeliveryFee),
		checkoutapp.WithLogger(log),
	)

	return &Session{
		ID:       id,
		Cart:     cart,
		Checkout: checkout,
		Orders:   orders,
		catalog:  f.catalog,
	}, nil
}

func stripeOf(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % lockStripes)
}
