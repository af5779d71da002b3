package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	cartapp "github.com/dwikikusuma/brewhome/internal/cart/app"
	catalogapp "github.com/dwikikusuma/brewhome/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/brewhome/internal/checkout/app"
	checkoutdomain "github.com/dwikikusuma/brewhome/internal/checkout/domain"
	orderapp "github.com/dwikikusuma/brewhome/internal/order/app"
	"github.com/dwikikusuma/brewhome/internal/storefront"
)

type errorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// httpStatusFromErr maps application errors onto HTTP status codes and a
// stable machine-readable code.
func httpStatusFromErr(err error) (int, string, string) {
	var ve *checkoutdomain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, "INVALID_ARGUMENT", ve.Message
	case errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, orderapp.ErrInvalidInput),
		errors.Is(err, checkoutdomain.ErrInvalidInput),
		errors.Is(err, storefront.ErrInvalidSession),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()
	case errors.Is(err, catalogapp.ErrNotFound),
		errors.Is(err, orderapp.ErrNotFound),
		errors.Is(err, checkoutapp.ErrProductNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, checkoutapp.ErrNotDurable):
		return http.StatusServiceUnavailable, "UNAVAILABLE", "order could not be saved, please try again"
	case errors.Is(err, cartapp.ErrNotDurable):
		return http.StatusServiceUnavailable, "UNAVAILABLE", "cart could not be saved"
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := httpStatusFromErr(err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
	}
	body := errorBody{Code: code, Message: msg}
	var ve *checkoutdomain.ValidationError
	if errors.As(err, &ve) {
		body.Fields = ve.Fields
	}
	writeJSON(w, status, body)
}
