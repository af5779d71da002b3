package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dwikikusuma/brewhome/internal/cart/domain"
	"github.com/dwikikusuma/brewhome/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrCorrupt = errors.New("stored cart is corrupt")
	// ErrNotDurable marks a mutation whose result was computed but could not
	// be persisted. The returned totals are still valid for display.
	ErrNotDurable = errors.New("cart change not persisted")
)

// Service is the only reader and writer of the persisted cart.
type Service struct {
	repo CartRepo
	log  *slog.Logger

	// mu serialises read-modify-write cycles on the persisted cart.
	mu sync.Locker

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithLocker shares the mutation lock with other Service values that write
// the same cart entry.
func WithLocker(l sync.Locker) Option {
	return func(s *Service) { s.mu = l }
}

func WithObserver(o Observer) Option {
	return func(s *Service) { s.Subscribe(o) }
}

func NewService(repo CartRepo, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		log:       logger.Discard(),
		mu:        &sync.Mutex{},
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers o for change notifications and returns a func that
// removes it.
func (s *Service) Subscribe(o Observer) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = o
	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// Load never fails: an unreadable cart is logged and treated as empty.
func (s *Service) Load(ctx context.Context) domain.Cart {
	cart, err := s.repo.Load(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "cart unreadable, using empty cart", slog.Any("err", err))
		return domain.Cart{}
	}
	return cart
}

func (s *Service) Totals(ctx context.Context) domain.Totals {
	cart := s.Load(ctx)
	return cart.Totals()
}

func (s *Service) Add(ctx context.Context, productID, title string, price decimal.Decimal, image string, qty int) (domain.Totals, error) {
	return s.mutate(ctx, "add", func(c *domain.Cart) bool {
		c.Add(productID, title, price, image, qty)
		return true
	})
}

// Remove of an absent product is a no-op.
func (s *Service) Remove(ctx context.Context, productID string) (domain.Totals, error) {
	return s.mutate(ctx, "remove", func(c *domain.Cart) bool {
		return c.Remove(productID)
	})
}

// UpdateQty sets the quantity to max(0, qty), deleting the line at zero.
// An absent product is a no-op.
func (s *Service) UpdateQty(ctx context.Context, productID string, qty int) (domain.Totals, error) {
	return s.mutate(ctx, "update_qty", func(c *domain.Cart) bool {
		return c.SetQty(productID, qty)
	})
}

// AdjustQty moves an existing line's quantity by delta, removing it at zero.
func (s *Service) AdjustQty(ctx context.Context, productID string, delta int) (domain.Totals, error) {
	return s.mutate(ctx, "adjust_qty", func(c *domain.Cart) bool {
		l, ok := c.Line(productID)
		if !ok {
			return false
		}
		return c.SetQty(productID, l.Qty+delta)
	})
}

func (s *Service) Clear(ctx context.Context) (domain.Totals, error) {
	s.mu.Lock()
	var err error
	if delErr := s.repo.Delete(ctx); delErr != nil {
		s.log.ErrorContext(ctx, "cart clear not persisted", slog.Any("err", delErr))
		err = fmt.Errorf("%w: %v", ErrNotDurable, delErr)
	}
	totals := (&domain.Cart{}).Totals()
	observers := s.snapshotObservers()
	s.mu.Unlock()

	notify(ctx, observers, totals)
	return totals, err
}

// mutate runs load, apply, persist, notify as one step. apply reports whether
// it changed the cart; unchanged carts are neither written nor announced.
func (s *Service) mutate(ctx context.Context, op string, apply func(*domain.Cart) bool) (domain.Totals, error) {
	s.mu.Lock()
	cart := s.Load(ctx)
	if !apply(&cart) {
		s.mu.Unlock()
		return cart.Totals(), nil
	}

	var err error
	if saveErr := s.repo.Save(ctx, cart); saveErr != nil {
		s.log.ErrorContext(ctx, "cart change not persisted", slog.String("op", op), slog.Any("err", saveErr))
		err = fmt.Errorf("%w: %v", ErrNotDurable, saveErr)
	}
	totals := cart.Totals()
	observers := s.snapshotObservers()
	s.mu.Unlock()

	s.log.DebugContext(ctx, "cart changed", slog.String("op", op), slog.Int("count", totals.Count))
	notify(ctx, observers, totals)
	return totals, err
}

func (s *Service) snapshotObservers() []Observer {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	out := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		out = append(out, o)
	}
	return out
}

func notify(ctx context.Context, observers []Observer, totals domain.Totals) {
	for _, o := range observers {
		o.CartChanged(ctx, totals)
	}
}
