package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/dwikikusuma/brewhome/internal/checkout/domain"
	orderdomain "github.com/dwikikusuma/brewhome/internal/order/domain"
	"github.com/dwikikusuma/brewhome/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrNotDurable means the order could not be written to the order log.
	// The cart is left untouched so the submission can be retried.
	ErrNotDurable = errors.New("order not persisted")
)

var DefaultDeliveryFee = decimal.NewFromInt(30)

type Service struct {
	Cart    CartReader
	Catalog CatalogReader
	Orders  OrderWriter

	delivery decimal.Decimal
	ids      *orderdomain.IDGenerator
	now      func() time.Time
	log      *slog.Logger
}

type Option func(*Service)

func WithDeliveryFee(fee decimal.Decimal) Option {
	return func(s *Service) { s.delivery = fee }
}

func WithIDGenerator(g *orderdomain.IDGenerator) Option {
	return func(s *Service) { s.ids = g }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(cart CartReader, catalog CatalogReader, orders OrderWriter, opts ...Option) *Service {
	s := &Service{
		Cart:     cart,
		Catalog:  catalog,
		Orders:   orders,
		delivery: DefaultDeliveryFee,
		ids:      orderdomain.NewIDGenerator(orderdomain.DefaultIDPrefix),
		now:      time.Now,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SubmitRequest struct {
	// QuickBuyID is the product selected outside the cart, if any.
	QuickBuyID string
	Customer   orderdomain.Customer
}

type Result struct {
	OrderID  string
	Order    orderdomain.Order
	QuickBuy bool
	// Location is where the confirmation view lives.
	Location string
}

// Summarize prices the working set: the quick-buy product when quickBuyID
// names a catalog product, the cart otherwise. It has no side effects.
func (s *Service) Summarize(ctx context.Context, quickBuyID string) (domain.Summary, error) {
	quickBuyID = strings.TrimSpace(quickBuyID)
	if quickBuyID != "" {
		p, err := s.Catalog.GetProduct(ctx, quickBuyID)
		switch {
		case err == nil:
			sum := s.price([]domain.Line{{
				ProductID: p.ID,
				Title:     p.Title,
				Image:     p.Image,
				Quantity:  1,
				UnitPrice: p.Price,
			}})
			sum.QuickBuy = true
			sum.QuickBuyID = p.ID
			return sum, nil
		case errors.Is(err, ErrProductNotFound):
			s.log.DebugContext(ctx, "quick-buy product unknown, using cart", slog.String("product_id", quickBuyID))
		default:
			return domain.Summary{}, fmt.Errorf("failed to get product %s: %w", quickBuyID, err)
		}
	}

	items, err := s.Cart.GetCart(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("failed to read cart: %w", err)
	}
	lines := make([]domain.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, domain.Line{
			ProductID: it.ProductID,
			Title:     it.Title,
			Image:     it.Image,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		})
	}
	return s.price(lines), nil
}

func (s *Service) price(lines []domain.Line) domain.Summary {
	subtotal := decimal.Zero
	for i := range lines {
		lines[i].LineTotal = lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(lines[i].Quantity)))
		subtotal = subtotal.Add(lines[i].LineTotal)
	}
	return domain.Summary{
		Lines:    lines,
		Subtotal: subtotal,
		Delivery: s.delivery,
		Total:    subtotal.Add(s.delivery),
	}
}

// Submit validates the customer block and working set, then records the
// order. The cart is cleared only for cart checkouts.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (Result, error) {
	if missing := req.Customer.Missing(); len(missing) > 0 {
		return Result{}, &domain.ValidationError{Message: domain.MsgMissingFields, Fields: missing}
	}

	sum, err := s.Summarize(ctx, req.QuickBuyID)
	if err != nil {
		return Result{}, err
	}
	if sum.Empty() {
		return Result{}, &domain.ValidationError{Message: domain.MsgNoItems}
	}

	items := make([]orderdomain.OrderItem, 0, len(sum.Lines))
	for _, ln := range sum.Lines {
		items = append(items, orderdomain.OrderItem{
			ID:    ln.ProductID,
			Title: ln.Title,
			Price: ln.UnitPrice,
			Qty:   ln.Quantity,
			Image: ln.Image,
		})
	}
	order := orderdomain.NewOrder(s.ids.NewID(), s.now(), req.Customer, items, s.delivery)

	if err := s.Orders.PlaceOrder(ctx, order); err != nil {
		s.log.ErrorContext(ctx, "order not persisted", slog.String("order_id", order.ID), slog.Any("err", err))
		return Result{}, fmt.Errorf("%w: %v", ErrNotDurable, err)
	}

	if err := s.Orders.SaveCustomer(ctx, order.Customer); err != nil {
		s.log.WarnContext(ctx, "customer profile not saved", slog.String("order_id", order.ID), slog.Any("err", err))
	}

	if !sum.QuickBuy {
		if err := s.Cart.ClearCart(ctx); err != nil {
			s.log.WarnContext(ctx, "cart not cleared after checkout", slog.String("order_id", order.ID), slog.Any("err", err))
		}
	}

	s.log.InfoContext(ctx, "checkout committed",
		slog.String("order_id", order.ID),
		slog.Bool("quick_buy", sum.QuickBuy),
		slog.String("total", order.Total.String()),
	)

	return Result{
		OrderID:  order.ID,
		Order:    order,
		QuickBuy: sum.QuickBuy,
		Location: ConfirmationLocation(order.ID),
	}, nil
}

// Prefill returns the customer block of the most recent successful checkout.
func (s *Service) Prefill(ctx context.Context) (orderdomain.Customer, bool) {
	return s.Orders.LastCustomer(ctx)
}

func ConfirmationLocation(orderID string) string {
	return "thankyou.html?orderId=" + url.QueryEscape(orderID)
}
