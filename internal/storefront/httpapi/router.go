// Package httpapi serves the storefront command handlers as JSON over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	cartapp "github.com/dwikikusuma/brewhome/internal/cart/app"
	cartdomain "github.com/dwikikusuma/brewhome/internal/cart/domain"
	catalogdomain "github.com/dwikikusuma/brewhome/internal/catalog/domain"
	checkoutdomain "github.com/dwikikusuma/brewhome/internal/checkout/domain"
	orderdomain "github.com/dwikikusuma/brewhome/internal/order/domain"
	"github.com/dwikikusuma/brewhome/internal/storefront"
	"github.com/dwikikusuma/brewhome/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

const (
	SessionCookie   = "brewhome_session"
	HeaderCartCount = "X-Cart-Count"

	sessionMaxAge = 30 * 24 * time.Hour
)

var supportedLanguages = language.NewMatcher([]language.Tag{
	language.English,
	language.German,
	language.French,
})

type handler struct {
	front *storefront.Storefront
	log   *slog.Logger
}

func NewRouter(front *storefront.Storefront, log *slog.Logger) *chi.Mux {
	if log == nil {
		log = logger.Discard()
	}
	h := &handler{front: front, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)

		r.Group(func(r chi.Router) {
			r.Use(h.withSession)

			r.Get("/cart", h.getCart)
			r.Post("/cart/items", h.addItem)
			r.Put("/cart/items/{id}", h.setQty)
			r.Delete("/cart/items/{id}", h.removeItem)
			r.Delete("/cart", h.clearCart)

			r.Get("/checkout", h.getCheckout)
			r.Post("/checkout", h.submitCheckout)

			r.Get("/orders/{id}", h.getOrder)
		})
	})
	return r
}

type sessionKey struct{}

// withSession resolves the browsing context from its cookie, issuing a new
// one when the cookie is absent or unreadable. The cart count header is kept
// current by subscribing to the session's cart.
func (h *handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *storefront.Session
		if c, err := r.Cookie(SessionCookie); err == nil {
			sess, _ = h.front.Session(c.Value)
		}
		if sess == nil {
			var err error
			sess, err = h.front.Session(storefront.NewSessionID())
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(sessionMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		unsubscribe := sess.Cart.Subscribe(cartapp.ObserverFunc(func(_ context.Context, t cartdomain.Totals) {
			w.Header().Set(HeaderCartCount, strconv.Itoa(t.Count))
		}))
		defer unsubscribe()

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func sessionFrom(ctx context.Context) *storefront.Session {
	s, _ := ctx.Value(sessionKey{}).(*storefront.Session)
	return s
}

type productResponse struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
}

func toProductResponse(p catalogdomain.Product) productResponse {
	return productResponse{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image, Category: p.Category}
}

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.front.Catalog().ListProducts(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.front.Catalog().GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

type cartLineResponse struct {
	cartdomain.CartLine
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type cartResponse struct {
	Items    []cartLineResponse `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	Count    int                `json:"count"`
	Durable  bool               `json:"durable"`
}

// writeCart answers a cart command. A failed write still reports the
// resulting cart, flagged as not durable.
func (h *handler) writeCart(w http.ResponseWriter, r *http.Request, t cartdomain.Totals, err error) {
	if err != nil && !errors.Is(err, cartapp.ErrNotDurable) {
		h.writeError(w, r, err)
		return
	}
	resp := cartResponse{
		Items:    make([]cartLineResponse, 0, len(t.Items)),
		Subtotal: t.Subtotal,
		Count:    t.Count,
		Durable:  err == nil,
	}
	for _, l := range t.Items {
		resp.Items = append(resp.Items, cartLineResponse{CartLine: l, LineTotal: l.LineTotal()})
	}
	w.Header().Set(HeaderCartCount, strconv.Itoa(t.Count))
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getCart(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	h.writeCart(w, r, s.Cart.Totals(r.Context()), nil)
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

func (h *handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := sessionFrom(r.Context()).OnAddRequested(r.Context(), req.ProductID, req.Qty)
	h.writeCart(w, r, t, err)
}

type setQtyRequest struct {
	Qty   *int `json:"qty"`
	Delta *int `json:"delta"`
}

// setQty sets an absolute quantity, or steps it when delta is given.
func (h *handler) setQty(w http.ResponseWriter, r *http.Request) {
	var req setQtyRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	s := sessionFrom(r.Context())
	id := chi.URLParam(r, "id")

	var (
		t   cartdomain.Totals
		err error
	)
	switch {
	case req.Delta != nil:
		t, err = s.OnStepRequested(r.Context(), id, *req.Delta)
	case req.Qty != nil:
		t, err = s.OnQuantityRequested(r.Context(), id, *req.Qty)
	default:
		err = fmt.Errorf("%w: qty or delta is required", errBadRequest)
	}
	h.writeCart(w, r, t, err)
}

func (h *handler) removeItem(w http.ResponseWriter, r *http.Request) {
	t, err := sessionFrom(r.Context()).OnRemoveRequested(r.Context(), chi.URLParam(r, "id"))
	h.writeCart(w, r, t, err)
}

func (h *handler) clearCart(w http.ResponseWriter, r *http.Request) {
	t, err := sessionFrom(r.Context()).OnClearRequested(r.Context())
	h.writeCart(w, r, t, err)
}

type summaryLineResponse struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Quantity  int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type checkoutResponse struct {
	Lines      []summaryLineResponse `json:"lines"`
	Subtotal   decimal.Decimal       `json:"subtotal"`
	Delivery   decimal.Decimal       `json:"delivery"`
	Total      decimal.Decimal       `json:"total"`
	QuickBuy   bool                  `json:"quickBuy"`
	QuickBuyID string                `json:"quickBuyId,omitempty"`
	Customer   *orderdomain.Customer `json:"customer,omitempty"`
}

func toCheckoutResponse(sum checkoutdomain.Summary) checkoutResponse {
	out := checkoutResponse{
		Lines:      make([]summaryLineResponse, 0, len(sum.Lines)),
		Subtotal:   sum.Subtotal,
		Delivery:   sum.Delivery,
		Total:      sum.Total,
		QuickBuy:   sum.QuickBuy,
		QuickBuyID: sum.QuickBuyID,
	}
	for _, l := range sum.Lines {
		out.Lines = append(out.Lines, summaryLineResponse{
			ProductID: l.ProductID,
			Title:     l.Title,
			Image:     l.Image,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	return out
}

func (h *handler) getCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := sessionFrom(r.Context()).OnCheckoutRequested(r.Context(), r.URL.Query().Get("product"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp := toCheckoutResponse(view.Summary)
	if view.HasCustomer {
		c := view.Customer
		resp.Customer = &c
	}
	writeJSON(w, http.StatusOK, resp)
}

type submitResponse struct {
	OrderID  string            `json:"orderId"`
	Location string            `json:"location"`
	QuickBuy bool              `json:"quickBuy"`
	Order    orderdomain.Order `json:"order"`
}

func (h *handler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	var c orderdomain.Customer
	if err := decode(w, r, &c); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := sessionFrom(r.Context()).OnSubmitRequested(r.Context(), r.URL.Query().Get("product"), c)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{
		OrderID:  res.OrderID,
		Location: res.Location,
		QuickBuy: res.QuickBuy,
		Order:    res.Order,
	})
}

type orderResponse struct {
	Order orderdomain.Order `json:"order"`
	Brief string            `json:"brief"`
}

func (h *handler) getOrder(w http.ResponseWriter, r *http.Request) {
	lang, _ := language.MatchStrings(supportedLanguages, r.Header.Get("Accept-Language"))
	conf, err := sessionFrom(r.Context()).OnConfirmationRequested(r.Context(), chi.URLParam(r, "id"), lang)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: conf.Order, Brief: conf.Brief})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
