package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dwikikusuma/brewhome/internal/order/domain"
	"github.com/dwikikusuma/brewhome/pkg/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrCorrupt      = errors.New("stored order data is corrupt")
)

type Service struct {
	orders   OrderLog
	profiles ProfileRepo
	log      *slog.Logger
}

func NewService(orders OrderLog, profiles ProfileRepo, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{orders: orders, profiles: profiles, log: log}
}

func (s *Service) Place(ctx context.Context, order domain.Order) error {
	if strings.TrimSpace(order.ID) == "" {
		return fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	if len(order.Items) == 0 {
		return fmt.Errorf("%w: order has no items", ErrInvalidInput)
	}
	if !order.Total.Equal(order.Subtotal.Add(order.Delivery)) {
		return fmt.Errorf("%w: total %s != subtotal %s + delivery %s",
			ErrInvalidInput, order.Total, order.Subtotal, order.Delivery)
	}

	if err := s.orders.Append(ctx, order); err != nil {
		return fmt.Errorf("append order %s: %w", order.ID, err)
	}
	s.log.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.Int("items", len(order.Items)),
		slog.String("total", order.Total.String()),
	)
	return nil
}

// List degrades to an empty history when the log cannot be read.
func (s *Service) List(ctx context.Context) []domain.Order {
	orders, err := s.orders.List(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "order log unreadable, using empty log", slog.Any("err", err))
		return nil
	}
	return orders
}

func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Order{}, ErrInvalidInput
	}
	for _, o := range s.List(ctx) {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, ErrNotFound
}

// Profile returns the last customer block used at checkout, if any.
func (s *Service) Profile(ctx context.Context) (domain.Customer, bool) {
	c, ok, err := s.profiles.Load(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "customer profile unreadable", slog.Any("err", err))
		return domain.Customer{}, false
	}
	return c, ok
}

func (s *Service) SaveProfile(ctx context.Context, c domain.Customer) error {
	if err := s.profiles.Save(ctx, c.Trimmed()); err != nil {
		return fmt.Errorf("save customer profile: %w", err)
	}
	return nil
}
