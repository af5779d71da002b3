package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	catalogapp "github.com/dwikikusuma/brewhome/internal/catalog/app"
	"github.com/dwikikusuma/brewhome/internal/catalog/infra/yamlcatalog"
	"github.com/dwikikusuma/brewhome/internal/storefront"
	"github.com/dwikikusuma/brewhome/pkg/kv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingOrders rejects writes to the order log and passes everything else
// through.
type failingOrders struct{ kv.Store }

func (f failingOrders) Set(ctx context.Context, key string, value []byte) error {
	if strings.HasSuffix(key, ":orders_v1") {
		return errors.New("disk full")
	}
	return f.Store.Set(ctx, key, value)
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, store kv.Store) *client {
	t.Helper()
	products, err := yamlcatalog.Default()
	require.NoError(t, err)
	front := storefront.New(store, catalogapp.NewService(products), storefront.Config{
		Namespace:     "brewhome",
		OrderIDPrefix: "BH",
		DeliveryFee:   decimal.NewFromInt(30),
	}, nil)

	srv := httptest.NewServer(NewRouter(front, nil))
	t.Cleanup(srv.Close)

	return (&client{t: t, base: srv.URL}).fresh()
}

// fresh returns a client for the same server with an empty cookie jar, i.e.
// a new browsing context.
func (c *client) fresh() *client {
	jar, err := cookiejar.New(nil)
	require.NoError(c.t, err)
	return &client{t: c.t, base: c.base, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path, body string, out any, header ...string) *http.Response {
	c.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	require.NoError(c.t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

type cartBody struct {
	Items []struct {
		ID        string `json:"id"`
		Qty       int    `json:"qty"`
		Price     string `json:"price"`
		LineTotal string `json:"lineTotal"`
	} `json:"items"`
	Subtotal string `json:"subtotal"`
	Count    int    `json:"count"`
	Durable  bool   `json:"durable"`
}

type errBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields"`
}

const ashaJSON = `{"fullname":"Asha","phone":"99","email":"a@example.com","address":"1 Bean St"}`

func TestHealth(t *testing.T) {
	c := newClient(t, kv.NewMemory())
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", "", nil).StatusCode)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/readyz", "", nil).StatusCode)
}

func TestProducts(t *testing.T) {
	c := newClient(t, kv.NewMemory())

	var all []map[string]any
	c.do(http.MethodGet, "/api/products", "", &all)
	assert.Len(t, all, 5)

	var desserts []map[string]any
	c.do(http.MethodGet, "/api/products?filter=dessert", "", &desserts)
	assert.Len(t, desserts, 2)

	var p map[string]any
	resp := c.do(http.MethodGet, "/api/products/cappuccino", "", &p)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "220", p["price"])

	resp = c.do(http.MethodGet, "/api/products/espresso", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartFlow(t *testing.T) {
	c := newClient(t, kv.NewMemory())

	var cart cartBody
	resp := c.do(http.MethodPost, "/api/cart/items", `{"productId":"cappuccino","qty":2}`, &cart)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get(HeaderCartCount))
	assert.True(t, cart.Durable)

	resp = c.do(http.MethodPost, "/api/cart/items", `{"productId":"brownie"}`, &cart)
	assert.Equal(t, "3", resp.Header.Get(HeaderCartCount))
	assert.Equal(t, "580", cart.Subtotal)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "cappuccino", cart.Items[0].ID)
	assert.Equal(t, "440", cart.Items[0].LineTotal)

	c.do(http.MethodPut, "/api/cart/items/brownie", `{"delta":1}`, &cart)
	assert.Equal(t, 4, cart.Count)

	c.do(http.MethodPut, "/api/cart/items/cappuccino", `{"qty":0}`, &cart)
	assert.Equal(t, 2, cart.Count)
	require.Len(t, cart.Items, 1)

	c.do(http.MethodDelete, "/api/cart/items/brownie", "", &cart)
	assert.Equal(t, 0, cart.Count)
	assert.NotNil(t, cart.Items)

	c.do(http.MethodPost, "/api/cart/items", `{"productId":"instant","qty":1}`, nil)
	resp = c.do(http.MethodDelete, "/api/cart", "", &cart)
	assert.Equal(t, "0", resp.Header.Get(HeaderCartCount))
	assert.Equal(t, 0, cart.Count)
}

func TestCartRejectsBadInput(t *testing.T) {
	c := newClient(t, kv.NewMemory())

	resp := c.do(http.MethodPost, "/api/cart/items", `{"productId":"espresso"}`, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = c.do(http.MethodPost, "/api/cart/items", `{"productId":"brownie","qty":-2}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.do(http.MethodPost, "/api/cart/items", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.do(http.MethodPut, "/api/cart/items/brownie", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionsDoNotShareCarts(t *testing.T) {
	a := newClient(t, kv.NewMemory())
	b := a.fresh()

	a.do(http.MethodPost, "/api/cart/items", `{"productId":"coldbrew","qty":3}`, nil)

	var cart cartBody
	b.do(http.MethodGet, "/api/cart", "", &cart)
	assert.Equal(t, 0, cart.Count)

	a.do(http.MethodGet, "/api/cart", "", &cart)
	assert.Equal(t, 3, cart.Count)
}

func TestCheckoutCartMode(t *testing.T) {
	c := newClient(t, kv.NewMemory())
	c.do(http.MethodPost, "/api/cart/items", `{"productId":"cappuccino","qty":2}`, nil)
	c.do(http.MethodPost, "/api/cart/items", `{"productId":"brownie","qty":1}`, nil)

	var view struct {
		Lines    []map[string]any `json:"lines"`
		Subtotal string           `json:"subtotal"`
		Delivery string           `json:"delivery"`
		Total    string           `json:"total"`
		QuickBuy bool             `json:"quickBuy"`
		Customer *map[string]any  `json:"customer"`
	}
	c.do(http.MethodGet, "/api/checkout", "", &view)
	assert.Len(t, view.Lines, 2)
	assert.Equal(t, "580", view.Subtotal)
	assert.Equal(t, "30", view.Delivery)
	assert.Equal(t, "610", view.Total)
	assert.False(t, view.QuickBuy)
	assert.Nil(t, view.Customer)

	var sub struct {
		OrderID  string `json:"orderId"`
		Location string `json:"location"`
	}
	resp := c.do(http.MethodPost, "/api/checkout", ashaJSON, &sub)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Regexp(t, regexp.MustCompile(`^BH-\d{8}-\d{4}-\d{4}$`), sub.OrderID)
	assert.Equal(t, "thankyou.html?orderId="+sub.OrderID, sub.Location)
	assert.Equal(t, "0", resp.Header.Get(HeaderCartCount))

	var cart cartBody
	c.do(http.MethodGet, "/api/cart", "", &cart)
	assert.Equal(t, 0, cart.Count)

	var conf struct {
		Order struct {
			ID    string `json:"id"`
			Total string `json:"total"`
		} `json:"order"`
		Brief string `json:"brief"`
	}
	resp = c.do(http.MethodGet, "/api/orders/"+sub.OrderID, "", &conf, "Accept-Language", "en-US,en;q=0.8")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, sub.OrderID, conf.Order.ID)
	assert.Equal(t, "610", conf.Order.Total)
	assert.Contains(t, conf.Brief, "Cappuccino x 2, Retro Brownie x 1")

	c.do(http.MethodGet, "/api/checkout", "", &view)
	require.NotNil(t, view.Customer)
	assert.Equal(t, "Asha", (*view.Customer)["fullname"])
}

func TestCheckoutQuickBuyKeepsCart(t *testing.T) {
	c := newClient(t, kv.NewMemory())
	c.do(http.MethodPost, "/api/cart/items", `{"productId":"brownie","qty":1}`, nil)

	var sub struct {
		OrderID  string `json:"orderId"`
		QuickBuy bool   `json:"quickBuy"`
		Order    struct {
			Total string `json:"total"`
		} `json:"order"`
	}
	resp := c.do(http.MethodPost, "/api/checkout?product=cappuccino", ashaJSON, &sub)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, sub.QuickBuy)
	assert.Equal(t, "250", sub.Order.Total)

	var cart cartBody
	c.do(http.MethodGet, "/api/cart", "", &cart)
	assert.Equal(t, 1, cart.Count)
}

func TestCheckoutValidation(t *testing.T) {
	c := newClient(t, kv.NewMemory())

	var e errBody
	resp := c.do(http.MethodPost, "/api/checkout", ashaJSON, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No items in cart. Add items or use Quick Buy from products.", e.Message)

	resp = c.do(http.MethodPost, "/api/checkout?product=coldbrew",
		`{"fullname":"Asha","phone":"99","email":"a@example.com","address":"   "}`, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please fill all required fields.", e.Message)
	assert.Equal(t, []string{"address"}, e.Fields)
}

func TestCheckoutOrderLogFailure(t *testing.T) {
	c := newClient(t, failingOrders{kv.NewMemory()})
	c.do(http.MethodPost, "/api/cart/items", `{"productId":"cappuccino","qty":1}`, nil)

	var e errBody
	resp := c.do(http.MethodPost, "/api/checkout", ashaJSON, &e)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "UNAVAILABLE", e.Code)

	var cart cartBody
	c.do(http.MethodGet, "/api/cart", "", &cart)
	assert.Equal(t, 1, cart.Count, "cart survives a failed submission")
}

func TestUnknownOrder(t *testing.T) {
	c := newClient(t, kv.NewMemory())
	resp := c.do(http.MethodGet, "/api/orders/BH-20260101-0000-1234", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
